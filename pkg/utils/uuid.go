package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}

// GenerateSessionID identifica cada instância do carrinho (equivalente a uma aba do navegador)
func GenerateSessionID() (string, error) {
	return gonanoid.Generate(characters, 16)
}
