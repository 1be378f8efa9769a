package dogs

import "time"

// Dog representa un perro registrado. El peso canónico es en libras;
// kilogramos existe solo como conversión de presentación.
type Dog struct {
	ID string // vacío => borrador sin persistir

	Name        string
	Breed       string
	Age         int
	Color       string
	Weight      *float64 // libras, opcional
	Temperament string

	// Clasificación de seguridad asignada por el clasificador externo:
	// Yes, No, Cautiously, Error. Vacía si aún no se clasificó.
	IsSafeToPet       string
	SafetyExplanation string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft son los campos editables de un perro: lo que manda un create o
// un update. La clasificación no viaja acá; la decide el servidor.
type Draft struct {
	Name        string
	Breed       string
	Age         int
	Color       string
	Weight      *float64
	Temperament string
}

// WeightKg devuelve el peso convertido a kilogramos redondeado, para
// vistas compactas. false si no hay peso registrado.
func (d Dog) WeightKg() (int, bool) {
	if d.Weight == nil {
		return 0, false
	}
	kg := *d.Weight * 0.453592
	return int(kg + 0.5), true
}
