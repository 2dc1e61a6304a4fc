package utils

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationErrors는 모든 유효성 검사 오류를 저장합니다
type ValidationErrors map[string]string

// Add는 ValidationErrors에 새 오류를 추가합니다
func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// HasErrors는 ValidationErrors에 오류가 있는지 확인합니다
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Error는 ValidationErrors를 문자열로 반환합니다
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}

	var errors []string
	for field, message := range v {
		errors = append(errors, fmt.Sprintf("%s: %s", field, message))
	}

	return strings.Join(errors, ", ")
}

// StructValidator는 struct 태그를 기반으로 유효성을 검사합니다
type StructValidator struct{}

// NewValidator는 새 StructValidator를 생성합니다
func NewValidator() *StructValidator {
	return &StructValidator{}
}

// Validate는 구조체의 유효성을 검사합니다
// 지원되는 태그:
// - required: 필드가 비어있으면 안됨
// - min=n: 숫자 필드가 n 이상이어야 함, 문자열은 최소 길이
// - max=n: 숫자 필드가 n 이하여야 함, 문자열은 최대 길이
func (v *StructValidator) Validate(data interface{}) ValidationErrors {
	errors := make(ValidationErrors)

	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		errors.Add("_error", "유효성 검사는 구조체만 가능합니다")
		return errors
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		typeField := typ.Field(i)

		validateTag := typeField.Tag.Get("validate")
		if validateTag == "" {
			continue
		}

		// JSON 태그에서 필드 이름 가져오기 (없으면 구조체 필드 이름 사용)
		fieldName := typeField.Name
		jsonTag := typeField.Tag.Get("json")
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		// 유효성 검사 규칙 적용, 필드당 첫 번째 오류만 보고
		rules := strings.Split(validateTag, ",")
		for _, rule := range rules {
			if err := validateField(field, rule); err != "" {
				errors.Add(fieldName, err)
				break
			}
		}
	}

	return errors
}

// validateField는 단일 필드에 대한 유효성 검사 규칙을 적용합니다
func validateField(field reflect.Value, rule string) string {
	name := rule
	param := ""
	if idx := strings.IndexByte(rule, '='); idx >= 0 {
		name = rule[:idx]
		param = rule[idx+1:]
	}

	switch name {
	case "required":
		if isEmptyValue(field) {
			return "필수 항목입니다"
		}

	case "min":
		min := 0
		fmt.Sscanf(param, "%d", &min)
		switch field.Kind() {
		case reflect.String:
			if field.String() != "" && len(field.String()) < min {
				return fmt.Sprintf("최소 %d자 이상이어야 합니다", min)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.Int() < int64(min) {
				return fmt.Sprintf("최소 %d 이상이어야 합니다", min)
			}
		}

	case "max":
		max := 0
		fmt.Sscanf(param, "%d", &max)
		switch field.Kind() {
		case reflect.String:
			if len(field.String()) > max {
				return fmt.Sprintf("최대 %d자 이하여야 합니다", max)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.Int() > int64(max) {
				return fmt.Sprintf("최대 %d 이하여야 합니다", max)
			}
		}
	}

	return ""
}

// isEmptyValue는 필드가 비어있는지 확인합니다
func isEmptyValue(field reflect.Value) bool {
	if !field.IsValid() {
		return true
	}

	switch field.Kind() {
	case reflect.String:
		return field.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() == 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return field.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return field.IsNil()
	}

	return false
}
