package models

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateFamilyInput_AddressAndIncome(t *testing.T) {
	ctx := context.Background()

	t.Run("cep digits are kept, punctuation stripped", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana", Cep: "01310-100"}
		if err := validateFamilyInput(ctx, &input, 0); err != nil {
			t.Fatalf("validateFamilyInput: %v", err)
		}
		if input.Cep != "01310100" {
			t.Fatalf("cep = %q, want 01310100", input.Cep)
		}
	})

	t.Run("short cep rejected", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana", Cep: "1310"}
		if err := validateFamilyInput(ctx, &input, 0); err == nil {
			t.Fatal("4-digit cep must be rejected")
		}
	})

	t.Run("state normalized to upper case", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana", State: " sp "}
		if err := validateFamilyInput(ctx, &input, 0); err != nil {
			t.Fatalf("validateFamilyInput: %v", err)
		}
		if input.State != "SP" {
			t.Fatalf("state = %q, want SP", input.State)
		}
	})

	t.Run("long state rejected", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana", State: "São Paulo"}
		if err := validateFamilyInput(ctx, &input, 0); err == nil {
			t.Fatal("spelled-out state must be rejected")
		}
	})

	t.Run("negative income rejected", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana", Income: decimal.NewFromInt(-100)}
		if err := validateFamilyInput(ctx, &input, 0); err == nil {
			t.Fatal("negative income must be rejected")
		}
	})

	t.Run("zero income accepted", func(t *testing.T) {
		input := NewFamily{ResponsibleName: "Ana"}
		if err := validateFamilyInput(ctx, &input, 0); err != nil {
			t.Fatalf("validateFamilyInput: %v", err)
		}
	})
}
