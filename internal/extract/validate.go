package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	"github.com/spendwise-app/spendwise/internal/gemini"
	"github.com/spendwise-app/spendwise/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations by wire field name, not Go struct field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseTransactions converts raw model output into a validated, ordered
// batch of proto-records. Order is whatever the model returned, which is
// not guaranteed to match chronological order in the source text. If any
// element fails validation the entire batch is rejected; callers must never
// persist a partially valid batch.
func ParseTransactions(raw string) ([]model.ProtoTransaction, error) {
	clean := gemini.CleanJSON(raw)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedJSON, fmt.Errorf("unmarshal model output: %w", err))
	}

	txAny, ok := parsed["transactions"]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation, "missing 'transactions' key in model output")
	}
	txSlice, ok := txAny.([]interface{})
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
			fmt.Sprintf("'transactions' is %T, want an array", txAny))
	}

	result := make([]model.ProtoTransaction, 0, len(txSlice))
	for i, item := range txSlice {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
				fmt.Sprintf("transaction %d is %T, want an object", i, item))
		}

		proto, err := buildProto(obj)
		if err != nil {
			return nil, schemaViolation(i, err)
		}

		if err := validate.Struct(proto); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				fe := verrs[0]
				return nil, apperrors.WithMessage(apperrors.ErrSchemaViolation,
					fmt.Sprintf("transaction %d: field %q fails %q constraint (got %v)", i, fe.Field(), fe.Tag(), fe.Value()))
			}
			return nil, schemaViolation(i, err)
		}

		result = append(result, proto)
	}

	return result, nil
}

func schemaViolation(index int, err error) error {
	return apperrors.WithMessage(apperrors.ErrSchemaViolation, fmt.Sprintf("transaction %d: %s", index, err))
}

// buildProto type-checks one decoded element field by field. Presence and
// JSON type live here; range and enum constraints live in the validate tags.
func buildProto(obj map[string]interface{}) (model.ProtoTransaction, error) {
	var proto model.ProtoTransaction

	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return proto, err
	}
	typ, err := getStringField(obj, "type", true)
	if err != nil {
		return proto, err
	}
	merchant, err := getStringField(obj, "merchant", true)
	if err != nil {
		return proto, err
	}
	date, err := getStringField(obj, "date", true)
	if err != nil {
		return proto, err
	}
	category, err := getStringField(obj, "category", true)
	if err != nil {
		return proto, err
	}
	accountNumber, err := getOptionalStringField(obj, "accountNumber")
	if err != nil {
		return proto, err
	}
	balance, err := getOptionalFloat64Field(obj, "balance")
	if err != nil {
		return proto, err
	}

	proto = model.ProtoTransaction{
		Amount:   amount,
		Type:     model.Type(typ),
		Merchant: merchant,
		Date:     date,
		Balance:  balance,
		Category: model.Category(category),
	}
	if accountNumber != nil {
		proto.AccountNumber = *accountNumber
	}
	return proto, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getOptionalFloat64Field(m map[string]interface{}, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want number or null", key, v)
	}
}
