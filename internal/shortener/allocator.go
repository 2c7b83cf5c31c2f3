package shortener

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jaevor/go-nanoid"
)

const (
	// Alphabet is the set of symbols used for generated codes.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// DefaultCodeLength is the length of generated codes.
	DefaultCodeLength = 8
	// MaxAttempts bounds how many generated codes are probed before giving up.
	MaxAttempts = 5
)

var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,20}$`)

// reservedCodes collide with fixed HTTP routes and can never resolve.
var reservedCodes = map[Code]struct{}{
	"docs":   {},
	"health": {},
	"urls":   {},
}

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// CodeChecker reports whether a code is already stored.
type CodeChecker interface {
	CodeExists(ctx context.Context, code Code) (bool, error)
}

// NewCodeGenerator returns a generator of random codes drawn from Alphabet. A
// non-positive length means DefaultCodeLength.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, fmt.Errorf("create code generator: %w", err)
	}

	return CodeGenerator(gen), nil
}

// ValidCustomCode reports whether code may be used as a custom short code.
func ValidCustomCode(code string) bool {
	return customCodePattern.MatchString(code)
}

// Allocator picks a short code that is not yet in the store.
//
// The existence probe is only an optimization: the store's unique constraint
// decides, so callers must still handle ErrCodeTaken from Repository.Create.
type Allocator struct {
	checker      CodeChecker
	generateCode CodeGenerator
	maxAttempts  int
}

// NewAllocator creates an allocator that probes checker for collisions.
func NewAllocator(checker CodeChecker, generator CodeGenerator) *Allocator {
	return &Allocator{
		checker:      checker,
		generateCode: generator,
		maxAttempts:  MaxAttempts,
	}
}

// Allocate returns customCode when it is valid and free, or a freshly generated
// code when customCode is empty.
func (a *Allocator) Allocate(ctx context.Context, customCode string) (Code, error) {
	if customCode != "" {
		return a.reserveCustom(ctx, customCode)
	}

	for range a.maxAttempts {
		code := Code(a.generateCode())

		exists, err := a.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code %q: %w", code, err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", ErrExhaustedRetries
}

func (a *Allocator) reserveCustom(ctx context.Context, customCode string) (Code, error) {
	if !ValidCustomCode(customCode) {
		return "", ErrInvalidCode
	}

	code := Code(customCode)
	if _, ok := reservedCodes[code]; ok {
		return "", ErrCodeTaken
	}

	exists, err := a.checker.CodeExists(ctx, code)
	if err != nil {
		return "", fmt.Errorf("check code %q: %w", code, err)
	}

	if exists {
		return "", ErrCodeTaken
	}

	return code, nil
}
