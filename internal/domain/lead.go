package domain

import (
	"fmt"
	"strings"
	"time"
)

// EmployeeSize は、サロンのスタイリスト数の区分です
type EmployeeSize string

const (
	EmployeeSizeSolo       EmployeeSize = "1-3"
	EmployeeSizeSmall      EmployeeSize = "4-10"
	EmployeeSizeMedium     EmployeeSize = "11-25"
	EmployeeSizeEnterprise EmployeeSize = "25+"
)

// employeeSizeDisplayNames は各EmployeeSizeの表示名を定義します
var employeeSizeDisplayNames = map[EmployeeSize]string{
	EmployeeSizeSolo:       "1-3 STYLISTS",
	EmployeeSizeSmall:      "4-10 STYLISTS",
	EmployeeSizeMedium:     "11-25 STYLISTS",
	EmployeeSizeEnterprise: "25+ ENTERPRISE",
}

// AllEmployeeSizes はすべてのEmployeeSizeを返します
func AllEmployeeSizes() []EmployeeSize {
	return []EmployeeSize{
		EmployeeSizeSolo,
		EmployeeSizeSmall,
		EmployeeSizeMedium,
		EmployeeSizeEnterprise,
	}
}

// ParseEmployeeSize は、文字列からEmployeeSizeを解析します
func ParseEmployeeSize(value string) (EmployeeSize, error) {
	size := EmployeeSize(strings.TrimSpace(value))
	if _, ok := employeeSizeDisplayNames[size]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEmployeeSize, value)
	}
	return size, nil
}

// DisplayName は、EmployeeSizeの表示名を返します
func (e EmployeeSize) DisplayName() string {
	if name, ok := employeeSizeDisplayNames[e]; ok {
		return name
	}
	return string(e)
}

// LeadData は、リード獲得フォームの入力内容です
type LeadData struct {
	FullName      string
	ContactPhone  string
	BusinessEmail string
	BusinessName  string
	EmployeeSize  EmployeeSize
}

// Validate は、必須項目と従業員規模を検証します
func (l LeadData) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"FullName", l.FullName},
		{"ContactPhone", l.ContactPhone},
		{"BusinessEmail", l.BusinessEmail},
		{"BusinessName", l.BusinessName},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s が入力されていません", ErrInvalidLead, f.name)
		}
	}
	if !strings.Contains(l.BusinessEmail, "@") {
		return fmt.Errorf("%w: BusinessEmail の形式が正しくありません", ErrInvalidLead)
	}
	if _, err := ParseEmployeeSize(string(l.EmployeeSize)); err != nil {
		return err
	}
	return nil
}

// Fields は、送信先に渡す5つのフィールドを固定の順序で返します
func (l LeadData) Fields() [][2]string {
	return [][2]string{
		{"FullName", l.FullName},
		{"ContactPhone", l.ContactPhone},
		{"BusinessEmail", l.BusinessEmail},
		{"BusinessName", l.BusinessName},
		{"EmployeeSize", string(l.EmployeeSize)},
	}
}

// LeadFormStatus は、リード獲得フォームの送信状態です
type LeadFormStatus int

const (
	LeadIdle LeadFormStatus = iota
	LeadLoading
	LeadSuccess
	LeadError
)

// LeadErrorResetDelay は、送信失敗の表示がフォームに戻るまでの時間です
const LeadErrorResetDelay = 4 * time.Second

var leadFormStatusNames = []string{"idle", "loading", "success", "error"}

// String はLeadFormStatusの名前を返します
func (s LeadFormStatus) String() string {
	if int(s) >= 0 && int(s) < len(leadFormStatusNames) {
		return leadFormStatusNames[s]
	}
	return "idle"
}
