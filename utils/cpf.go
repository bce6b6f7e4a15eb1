package utils

import "errors"

// OnlyDigits strips every non-digit rune.
func OnlyDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCPF checks the 11-digit Brazilian CPF, including both check digits.
func ValidateCPF(cpf string) error {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return errors.New("cpf must have 11 digits")
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("cpf is invalid")
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') || checkDigit(digits, 10) != int(digits[10]-'0') {
		return errors.New("cpf check digits do not match")
	}
	return nil
}

func checkDigit(digits string, length int) int {
	sum := 0
	for i := 0; i < length; i++ {
		sum += int(digits[i]-'0') * (length + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

// MaskCPF keeps only the last two digits visible, for audit payloads.
func MaskCPF(cpf string) string {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return "***.***.***-" + digits[9:]
}
