package models

import "testing"

func TestSanitizeAuditPayload_DropsSensitiveKeys(t *testing.T) {
	payload := map[string]interface{}{
		"email":         "maria@example.com",
		"password":      "hunter2",
		"nova_senha":    "hunter3",
		"access_token":  "abc",
		"Authorization": "Bearer abc",
		"client_secret": "shh",
	}

	out := SanitizeAuditPayload(payload)

	if len(out) != 1 {
		t.Fatalf("sanitized payload = %v, want only email", out)
	}
	if out["email"] != "maria@example.com" {
		t.Errorf("email = %v", out["email"])
	}
}

func TestSanitizeAuditPayload_MasksCPF(t *testing.T) {
	payload := map[string]interface{}{
		"cpf":             "52998224725",
		"responsible_cpf": "529.982.247-25",
	}

	out := SanitizeAuditPayload(payload)

	if out["cpf"] != "***.***.***-25" {
		t.Errorf("cpf = %v, want masked", out["cpf"])
	}
	if out["responsible_cpf"] != "***.***.***-25" {
		t.Errorf("responsible_cpf = %v, want masked", out["responsible_cpf"])
	}
}

func TestSanitizeAuditPayload_RecursesNestedMaps(t *testing.T) {
	payload := map[string]interface{}{
		"before": map[string]interface{}{
			"cpf":   "52998224725",
			"senha": "old",
			"name":  "Maria",
		},
	}

	out := SanitizeAuditPayload(payload)

	before, ok := out["before"].(map[string]interface{})
	if !ok {
		t.Fatalf("before = %v, want nested map", out["before"])
	}
	if _, found := before["senha"]; found {
		t.Error("nested senha must be dropped")
	}
	if before["cpf"] != "***.***.***-25" {
		t.Errorf("nested cpf = %v, want masked", before["cpf"])
	}
	if before["name"] != "Maria" {
		t.Errorf("nested name = %v", before["name"])
	}
}

func TestSanitizeAuditPayload_NilPassthrough(t *testing.T) {
	if out := SanitizeAuditPayload(nil); out != nil {
		t.Fatalf("nil payload = %v, want nil", out)
	}
}
