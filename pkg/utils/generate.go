package utils

import (
	"crypto/rand"
	"math/big"
)

const voucherAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// VoucherCodeLength is the length of generated voucher codes
const VoucherCodeLength = 8

// GenerateVoucherCode returns a random upper-case alphanumeric code
func GenerateVoucherCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(voucherAlphabet)))

	code := make([]byte, VoucherCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		code[i] = voucherAlphabet[n.Int64()]
	}

	return string(code), nil
}
