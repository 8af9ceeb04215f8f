// Package validation はリクエストの検証と、検証エラーの繁体字中国語メッセージへの変換を行います。
//
// 検証ルールは go-playground/validator の `validate` タグで宣言し、
// エラーのキーには `json` タグ、メッセージ内の表示名には `display` タグを使います。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"todo-api/backend/internal/response"
)

// RequestKey は特定のフィールドに紐づかないエラーのキーです。
const RequestKey = "request"

// ルール種別ごとのメッセージテンプレート。%[1]s は表示名、%[2]s はパラメータ。
var ruleMessages = map[string]string{
	"required": "%[1]s 為必填欄位",
	"notblank": "%[1]s 不可為空白",
	"len":      "%[1]s 長度必須為 %[2]s 個字元",
	"oneof":    "%[1]s 必須是下列其中之一：%[2]s",
	"email":    "%[1]s 不是有效的電子郵件地址",
	"url":      "%[1]s 不是有效的網址",
	"http_url": "%[1]s 不是有效的網址",
	"numeric":  "%[1]s 必須是數字",
	"number":   "%[1]s 必須是數字",
	"alphanum": "%[1]s 只能包含英文字母與數字",
	"datetime": "%[1]s 的日期時間格式必須為 %[2]s",
	"e164":     "%[1]s 不是有效的電話號碼",
}

// 文字列とそれ以外で文言が変わるルール
var (
	stringRuleMessages = map[string]string{
		"max": "%[1]s 長度不可超過 %[2]s 個字元",
		"min": "%[1]s 長度不可少於 %[2]s 個字元",
		"lte": "%[1]s 長度不可超過 %[2]s 個字元",
		"gte": "%[1]s 長度不可少於 %[2]s 個字元",
	}
	numberRuleMessages = map[string]string{
		"max": "%[1]s 不可大於 %[2]s",
		"min": "%[1]s 不可小於 %[2]s",
		"lte": "%[1]s 不可大於 %[2]s",
		"gte": "%[1]s 不可小於 %[2]s",
		"lt":  "%[1]s 必須小於 %[2]s",
		"gt":  "%[1]s 必須大於 %[2]s",
	}
)

// モデルバインディング (JSON のデコード) のメッセージ
const (
	msgMissingRequestBody = "請求內容不可為空"
	msgMalformedBody      = "請求內容不是有效的 JSON 格式"
	msgAttemptedValue     = "值 '%s' 對於 %s 無效"
	msgValueInvalid       = "%s 的值無效"
)

// Validator は validator.Validate を包み、結果を response.ValidationErrors で返します。
type Validator struct {
	validate *validator.Validate
}

// New は json タグ名と notblank ルールを登録した Validator を作成します。
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Struct は obj を検証します。問題がなければ nil を返します。
func (v *Validator) Struct(obj any) response.ValidationErrors {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	errs := response.ValidationErrors{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(RequestKey, err.Error())
		return errs
	}

	t := indirectType(reflect.TypeOf(obj))
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe, displayName(t, fe.StructField(), fe.Field())))
	}
	return errs
}

// BindJSON はリクエストボディを obj にデコードして検証します。
func (v *Validator) BindJSON(c *gin.Context, obj any) response.ValidationErrors {
	if err := c.ShouldBindJSON(obj); err != nil {
		return bindingErrors(err, indirectType(reflect.TypeOf(obj)))
	}
	return v.Struct(obj)
}

// BindQuery はクエリ文字列を obj にバインドして検証します。
func (v *Validator) BindQuery(c *gin.Context, obj any) response.ValidationErrors {
	if err := c.ShouldBindQuery(obj); err != nil {
		errs := response.ValidationErrors{}
		errs.Add(RequestKey, fmt.Sprintf(msgValueInvalid, "查詢參數"))
		return errs
	}
	return v.Struct(obj)
}

// PathID はパスパラメータ name を正の整数として取り出します。
func PathID(c *gin.Context, name string) (int, response.ValidationErrors) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		errs := response.ValidationErrors{}
		errs.Add(name, fmt.Sprintf(msgAttemptedValue, raw, name))
		return 0, errs
	}
	return id, nil
}

func message(fe validator.FieldError, display string) string {
	tag := fe.Tag()
	param := fe.Param()

	if tmpl, ok := numberRuleMessages[tag]; ok {
		if isStringLike(fe.Kind()) {
			if st, ok := stringRuleMessages[tag]; ok {
				tmpl = st
			}
		}
		return fmt.Sprintf(tmpl, display, param)
	}
	if tmpl, ok := ruleMessages[tag]; ok {
		if tag == "oneof" {
			param = strings.Join(strings.Fields(param), ", ")
		}
		return fmt.Sprintf(tmpl, display, param)
	}
	return fe.Error()
}

func bindingErrors(err error, t reflect.Type) response.ValidationErrors {
	errs := response.ValidationErrors{}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		errs.Add(RequestKey, msgMissingRequestBody)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		name := typeErr.Field
		errs.Add(name, fmt.Sprintf(msgAttemptedValue, typeErr.Value, displayNameByJSON(t, name)))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		errs.Add(RequestKey, msgMalformedBody)
	default:
		errs.Add(RequestKey, msgMalformedBody)
	}
	return errs
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func displayName(t reflect.Type, structField, fallback string) string {
	if t != nil && t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(structField); ok {
			if d := f.Tag.Get("display"); d != "" {
				return d
			}
		}
	}
	return fallback
}

func displayNameByJSON(t reflect.Type, jsonName string) string {
	if t != nil && t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if jsonFieldName(f) == jsonName {
				if d := f.Tag.Get("display"); d != "" {
					return d
				}
			}
		}
	}
	return jsonName
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func isStringLike(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
