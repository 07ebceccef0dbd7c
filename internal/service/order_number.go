package service

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNumberGenerator produces candidate order numbers. Uniqueness is enforced
// by the store; a clashing number is regenerated.
type OrderNumberGenerator interface {
	Next(now time.Time) string
}

type randomOrderNumbers struct{}

// NewOrderNumberGenerator returns the ORD-YYMM-NNNN generator.
func NewOrderNumberGenerator() OrderNumberGenerator {
	return randomOrderNumbers{}
}

func (randomOrderNumbers) Next(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.UTC().Format("0601"), rand.Intn(10000))
}

// OrderNumberFunc adapts a function to OrderNumberGenerator.
type OrderNumberFunc func(now time.Time) string

func (f OrderNumberFunc) Next(now time.Time) string { return f(now) }

const orderNumberAttempts = 3
