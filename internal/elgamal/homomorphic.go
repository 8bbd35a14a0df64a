// homomorphic.go - Additive homomorphism on ciphertexts.
//
// Component-wise point addition adds plaintexts in the exponent:
// Dec(Enc(a) + Enc(b)) = a + b, provided both ciphertexts were produced under
// the same public key. Mixing keys yields a well-formed but meaningless
// ciphertext; that precondition is the caller's to uphold and is not
// detectable here.

package elgamal

import "tongo/internal/ecc"

// AddCiphertexts homomorphically adds two ciphertexts.
func AddCiphertexts(a, b Ciphertext) Ciphertext {
	return Ciphertext{
		C1: ecc.Add(a.C1, b.C1),
		C2: ecc.Add(a.C2, b.C2),
	}
}

// SubCiphertexts homomorphically subtracts b from a, by adding the y-negated
// ciphertext.
func SubCiphertexts(a, b Ciphertext) Ciphertext {
	return AddCiphertexts(a, negateCiphertext(b))
}

func negateCiphertext(ct Ciphertext) Ciphertext {
	return Ciphertext{
		C1: ecc.Negate(ct.C1),
		C2: ecc.Negate(ct.C2),
	}
}
