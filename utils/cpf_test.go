package utils

import "testing"

func TestValidateCPF(t *testing.T) {
	cases := []struct {
		name    string
		cpf     string
		wantErr bool
	}{
		{"valid plain", "52998224725", false},
		{"valid formatted", "529.982.247-25", false},
		{"wrong first check digit", "52998224735", true},
		{"wrong second check digit", "52998224726", true},
		{"all same digits", "11111111111", true},
		{"too short", "5299822472", true},
		{"empty", "", true},
		{"letters only", "abcdefghijk", true},
	}
	for _, tc := range cases {
		err := ValidateCPF(tc.cpf)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: ValidateCPF(%q) = %v, wantErr %v", tc.name, tc.cpf, err, tc.wantErr)
		}
	}
}

func TestOnlyDigits(t *testing.T) {
	if got := OnlyDigits("529.982.247-25"); got != "52998224725" {
		t.Errorf("OnlyDigits = %q", got)
	}
	if got := OnlyDigits("abc"); got != "" {
		t.Errorf("OnlyDigits(letters) = %q, want empty", got)
	}
}

func TestMaskCPF(t *testing.T) {
	if got := MaskCPF("52998224725"); got != "***.***.***-25" {
		t.Errorf("MaskCPF = %q", got)
	}
	if got := MaskCPF("529.982.247-25"); got != "***.***.***-25" {
		t.Errorf("MaskCPF(formatted) = %q", got)
	}
	// Non-CPF strings pass through untouched.
	if got := MaskCPF("not a cpf"); got != "not a cpf" {
		t.Errorf("MaskCPF(garbage) = %q", got)
	}
}
