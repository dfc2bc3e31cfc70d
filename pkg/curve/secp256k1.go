package curve

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/zeebo/blake3"
)

// Secp256k1 implements Curve over the secp256k1 group, using decred's
// constant-time-where-it-matters field and scalar arithmetic. It carries no
// state and is safe to use as a value.
type Secp256k1 struct{}

var _ Curve = Secp256k1{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) ScalarSize() int { return 32 }

func (Secp256k1) PointSize() int { return 33 }

func (g Secp256k1) NewScalar() Scalar {
	return &secp256k1Scalar{}
}

func (g Secp256k1) ScalarFromUint64(v uint64) Scalar {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], v)
	var n secp256k1.ModNScalar
	n.SetByteSlice(buf[:])
	return &secp256k1Scalar{n: n}
}

// RandomScalar draws uniformly from [1, N) via rejection sampling, retrying
// whenever the sampled value is out of range or zero.
func (g Secp256k1) RandomScalar(rnd io.Reader) (Scalar, error) {
	var buf [32]byte
	for {
		if _, err := io.ReadFull(rnd, buf[:]); err != nil {
			return nil, fmt.Errorf("curve: reading randomness: %w", err)
		}
		var n secp256k1.ModNScalar
		overflow := n.SetByteSlice(buf[:])
		if !overflow && !n.IsZero() {
			return &secp256k1Scalar{n: n}, nil
		}
	}
}

func (g Secp256k1) DecodeScalar(b []byte) (Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("curve: scalar must be %d bytes, got %d", 32, len(b))
	}
	var n secp256k1.ModNScalar
	if overflow := n.SetByteSlice(b); overflow {
		return nil, errors.New("curve: scalar out of range")
	}
	return &secp256k1Scalar{n: n}, nil
}

// Identity returns the point at infinity, represented internally with a
// zero Z coordinate, matching the Jacobian convention.
func (g Secp256k1) Identity() Point {
	return &secp256k1Point{}
}

func (g Secp256k1) Generator() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &j)
	return &secp256k1Point{j: j}
}

func (g Secp256k1) DecodePoint(b []byte) (Point, error) {
	if len(b) != 33 {
		return nil, fmt.Errorf("curve: point must be %d bytes, got %d", 33, len(b))
	}
	if isAllZero(b) {
		return &secp256k1Point{}, nil
	}
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}
	var j secp256k1.JacobianPoint
	pk.AsJacobian(&j)
	return &secp256k1Point{j: j}, nil
}

func (g Secp256k1) HashToScalar(domain, msg []byte) Scalar {
	h := blake3.New()
	writeDomain(h, domain)
	_, _ = h.Write(msg)
	sum := h.Sum(nil)
	var n secp256k1.ModNScalar
	// A single reduction mod N biases the result by ~2^-128, negligible for
	// a Fiat-Shamir challenge.
	n.SetByteSlice(sum)
	return &secp256k1Scalar{n: n}
}

// HashToCurve uses try-and-increment: hash(domain || msg || counter),
// interpreted as a compressed point with the even-Y prefix, retrying with
// an incremented counter on decode failure. This terminates after a small
// expected number of iterations (~2 on average).
func (g Secp256k1) HashToCurve(domain, msg []byte) Point {
	for ctr := uint32(0); ; ctr++ {
		h := blake3.New()
		writeDomain(h, domain)
		_, _ = h.Write(msg)
		var ctrBytes [4]byte
		binary.BigEndian.PutUint32(ctrBytes[:], ctr)
		_, _ = h.Write(ctrBytes[:])
		sum := h.Sum(nil)
		candidate := make([]byte, 0, 33)
		candidate = append(candidate, 0x02)
		candidate = append(candidate, sum...)
		pk, err := secp256k1.ParsePubKey(candidate)
		if err != nil {
			continue
		}
		var j secp256k1.JacobianPoint
		pk.AsJacobian(&j)
		return &secp256k1Point{j: j}
	}
}

// SumOfProducts computes sum(scalars[i] * points[i]). This reference
// implementation is linear time; a production backend would batch this
// with Pippenger's algorithm.
func (g Secp256k1) SumOfProducts(scalars []Scalar, points []Point) Point {
	var acc secp256k1.JacobianPoint
	for i := range scalars {
		sc := scalars[i].(*secp256k1Scalar)
		pt := points[i].(*secp256k1Point)
		var term secp256k1.JacobianPoint
		secp256k1.ScalarMultNonConst(&sc.n, &pt.j, &term)
		var sum secp256k1.JacobianPoint
		secp256k1.AddNonConst(&acc, &term, &sum)
		acc = sum
	}
	return &secp256k1Point{j: acc}
}

func writeDomain(h *blake3.Hasher, domain []byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(domain)))
	_, _ = h.Write(lenBuf[:])
	_, _ = h.Write(domain)
}

func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

type secp256k1Scalar struct {
	n secp256k1.ModNScalar
}

func (s *secp256k1Scalar) Add(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	var out secp256k1.ModNScalar
	out.Add2(&s.n, &o.n)
	return &secp256k1Scalar{n: out}
}

func (s *secp256k1Scalar) Sub(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	var negO secp256k1.ModNScalar
	negO.Set(&o.n)
	negO.Negate()
	var out secp256k1.ModNScalar
	out.Add2(&s.n, &negO)
	return &secp256k1Scalar{n: out}
}

func (s *secp256k1Scalar) Mul(other Scalar) Scalar {
	o := other.(*secp256k1Scalar)
	var out secp256k1.ModNScalar
	out.Mul2(&s.n, &o.n)
	return &secp256k1Scalar{n: out}
}

func (s *secp256k1Scalar) Negate() Scalar {
	var out secp256k1.ModNScalar
	out.Set(&s.n)
	out.Negate()
	return &secp256k1Scalar{n: out}
}

func (s *secp256k1Scalar) Invert() Scalar {
	var out secp256k1.ModNScalar
	out.Set(&s.n)
	out.InverseNonConst()
	return &secp256k1Scalar{n: out}
}

func (s *secp256k1Scalar) IsZero() bool {
	return s.n.IsZero()
}

func (s *secp256k1Scalar) Equal(other Scalar) bool {
	o, ok := other.(*secp256k1Scalar)
	if !ok {
		return false
	}
	a := s.n.Bytes()
	b := o.n.Bytes()
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func (s *secp256k1Scalar) Bytes() []byte {
	b := s.n.Bytes()
	out := make([]byte, len(b))
	copy(out, b[:])
	return out
}

func (s *secp256k1Scalar) Curve() Curve { return Secp256k1{} }

type secp256k1Point struct {
	j secp256k1.JacobianPoint
}

func (p *secp256k1Point) Add(other Point) Point {
	o := other.(*secp256k1Point)
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.j, &o.j, &out)
	return &secp256k1Point{j: out}
}

func (p *secp256k1Point) ScalarMult(s Scalar) Point {
	sc := s.(*secp256k1Scalar)
	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&sc.n, &p.j, &out)
	return &secp256k1Point{j: out}
}

func (p *secp256k1Point) Negate() Point {
	aff := p.j
	aff.ToAffine()
	aff.Y.Negate(1)
	aff.Y.Normalize()
	return &secp256k1Point{j: aff}
}

func (p *secp256k1Point) IsIdentity() bool {
	z := p.j.Z
	z.Normalize()
	return z.IsZero()
}

func (p *secp256k1Point) Equal(other Point) bool {
	o, ok := other.(*secp256k1Point)
	if !ok {
		return false
	}
	pIdentity, oIdentity := p.IsIdentity(), o.IsIdentity()
	if pIdentity || oIdentity {
		return pIdentity == oIdentity
	}
	a := p.Bytes()
	b := o.Bytes()
	return subtle.ConstantTimeCompare(a, b) == 1
}

func (p *secp256k1Point) Bytes() []byte {
	if p.IsIdentity() {
		return make([]byte, 33)
	}
	aff := p.j
	aff.ToAffine()
	x := aff.X.Bytes()
	prefix := byte(0x02)
	if aff.Y.IsOdd() {
		prefix = 0x03
	}
	out := make([]byte, 33)
	out[0] = prefix
	copy(out[1:], x[:])
	return out
}

func (p *secp256k1Point) Curve() Curve { return Secp256k1{} }
