package extract

import "strings"

// extractionTemperature favors determinism and fidelity over variety when
// pulling structured fields out of SMS text.
const extractionTemperature = 0.3

// buildPrompt instructs the model to return a JSON object with a
// "transactions" array, describing required vs optional fields, the closed
// category set, and the SMS phrasings banks actually use.
func buildPrompt(smsText string) string {
	var b strings.Builder

	b.WriteString("You are a financial transaction parser. Extract all transaction details from bank SMS messages and return them in JSON format.\n\n")
	b.WriteString("The response must be a JSON object with a \"transactions\" array. Each transaction should have:\n")
	b.WriteString("- amount (number): Transaction amount\n")
	b.WriteString("- type (string): \"debit\" or \"credit\"\n")
	b.WriteString("- merchant (string): Merchant or payee name\n")
	b.WriteString("- date (string): Transaction date in ISO format\n")
	b.WriteString("- accountNumber (string, optional): Last 4 digits of account number\n")
	b.WriteString("- balance (number, optional): Available balance after transaction\n")
	b.WriteString("- category (string): One of: food, shopping, transport, entertainment, bills, healthcare, education, transfer, other\n\n")
	b.WriteString("Common patterns:\n")
	b.WriteString("- Debited/Credited indicates transaction type\n")
	b.WriteString("- Amount is usually prefixed with Rs., INR, or currency symbol\n")
	b.WriteString("- Date formats vary (DD-MMM-YY, DD/MM/YYYY, etc.)\n")
	b.WriteString("- Merchant name usually follows \"at\" or \"to\"\n")
	b.WriteString("- Account numbers are often masked (XX1234)\n")
	b.WriteString("- Balance is mentioned as \"Avl Bal\", \"Available Balance\", etc.\n\n")
	b.WriteString("Extract all transactions from these SMS messages:\n\n")
	b.WriteString(smsText)

	return b.String()
}
