// Package classifier define el port hacia el servicio externo que
// clasifica qué tan seguro es acercarse a un perro.
package classifier

import (
	"context"
	"strings"
)

// Valores válidos de clasificación.
const (
	SafetyYes        = "Yes"
	SafetyNo         = "No"
	SafetyCautiously = "Cautiously"
	SafetyError      = "Error"
)

// DogProfile son los campos del perro que alimentan la clasificación.
type DogProfile struct {
	Name        string   `json:"name"`
	Breed       string   `json:"breed"`
	Age         int      `json:"age"`
	Color       string   `json:"color,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Temperament string   `json:"temperament,omitempty"`
}

// SafetyPrediction es el resultado: clasificación + explicación.
type SafetyPrediction struct {
	IsSafeToPet       string
	SafetyExplanation string
}

// Predictor clasifica un perfil. Nunca devuelve error: las fallas del
// servicio externo se degradan a una predicción con clasificación Error,
// porque clasificar jamás debe impedir guardar el registro.
type Predictor interface {
	Predict(ctx context.Context, p DogProfile) SafetyPrediction
}

// IsValid reporta si v es una de las cuatro clasificaciones conocidas.
func IsValid(v string) bool {
	switch v {
	case SafetyYes, SafetyNo, SafetyCautiously, SafetyError:
		return true
	default:
		return false
	}
}

// ParseResponse interpreta la respuesta cruda del clasificador:
// primera línea = clasificación, segunda línea = explicación.
// Una clasificación desconocida se cierra a Error (nunca se propaga tal cual).
func ParseResponse(content string) SafetyPrediction {
	lines := strings.Split(content, "\n")

	raw := strings.TrimSpace(lines[0])
	value := Normalize(raw)
	if !IsValid(value) {
		return SafetyPrediction{
			IsSafeToPet:       SafetyError,
			SafetyExplanation: "Invalid prediction format from classifier: " + raw,
		}
	}

	explanation := "No explanation provided"
	for _, line := range lines[1:] {
		if s := strings.TrimSpace(line); s != "" {
			explanation = s
			break
		}
	}

	return SafetyPrediction{
		IsSafeToPet:       value,
		SafetyExplanation: explanation,
	}
}

// Normalize mapea variantes (YES, y, caution, ...) a la forma canónica.
// Si no hay match devuelve el valor original; IsValid lo rechazará después.
func Normalize(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y":
		return SafetyYes
	case "no", "n":
		return SafetyNo
	case "cautiously", "caution":
		return SafetyCautiously
	case "error":
		return SafetyError
	default:
		return raw
	}
}
