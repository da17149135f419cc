package service

import (
	"math/rand/v2"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeGenerator генерирует кандидатов в короткие коды.
// Уникальность кода проверяет Service.
type CodeGenerator interface {
	Generate(length int) string
}

// RandomGenerator генерирует коды из алфавитно-цифрового алфавита.
// Источник случайности некриптографический, коллизии разрешает Service.
type RandomGenerator struct{}

// NewRandomGenerator создаёт новый генератор кодов
func NewRandomGenerator() RandomGenerator {
	return RandomGenerator{}
}

// Generate возвращает случайный код заданной длины
func (RandomGenerator) Generate(length int) string {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}
