package domain

import (
	"errors"
	"testing"
)

func validLead() LeadData {
	return LeadData{
		FullName:      "Jordan Rivera",
		ContactPhone:  "555-0100",
		BusinessEmail: "studio@example.com",
		BusinessName:  "Bronx Glam",
		EmployeeSize:  EmployeeSizeSmall,
	}
}

func TestLeadData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LeadData)
		wantErr error
	}{
		{"有効なリード", func(*LeadData) {}, nil},
		{"氏名が空", func(l *LeadData) { l.FullName = "  " }, ErrInvalidLead},
		{"メール形式が不正", func(l *LeadData) { l.BusinessEmail = "studio" }, ErrInvalidLead},
		{"未知の従業員規模", func(l *LeadData) { l.EmployeeSize = "100" }, ErrUnknownEmployeeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := validLead()
			tt.mutate(&lead)
			err := lead.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("予期しないエラー: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("期待されるエラー: %v, 実際: %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseEmployeeSize(t *testing.T) {
	for _, size := range AllEmployeeSizes() {
		got, err := ParseEmployeeSize(string(size))
		if err != nil || got != size {
			t.Errorf("区分 %s の解析に失敗: %v", size, err)
		}
	}
	if EmployeeSizeEnterprise.DisplayName() != "25+ ENTERPRISE" {
		t.Errorf("予期しない表示名: %s", EmployeeSizeEnterprise.DisplayName())
	}
}

func TestLeadData_Fields(t *testing.T) {
	fields := validLead().Fields()
	if len(fields) != 5 {
		t.Fatalf("期待されるフィールド数: 5, 実際: %d", len(fields))
	}
	if fields[4][0] != "EmployeeSize" || fields[4][1] != "4-10" {
		t.Errorf("予期しないフィールド: %v", fields[4])
	}
}
