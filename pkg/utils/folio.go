package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateFolio genera el folio público corto de un cliente
func GenerateFolio() (string, error) {
	return gonanoid.Generate(characters, 8)
}
