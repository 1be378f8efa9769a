package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/users"
)

// Seed carga las cuentas por defecto y los perros de ejemplo en los
// repos in-memory (modo dev/handoff, cuando no hay Postgres).
func Seed(ctx context.Context, dogRepo dogs.Repository, userRepo users.Repository) error {
	now := time.Now()

	for _, acc := range []struct {
		username, password, email, first, last, role string
	}{
		{"admin", "admin123", "admin@example.com", "Admin", "User", users.RoleAdmin},
		{"guest", "guest123", "guest@example.com", "Guest", "User", users.RoleStandard},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", acc.username, err)
		}
		err = userRepo.Create(ctx, users.User{
			ID:           uuid.NewString(),
			Username:     acc.username,
			PasswordHash: string(hash),
			Email:        acc.email,
			FirstName:    acc.first,
			LastName:     acc.last,
			Role:         acc.role,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", acc.username, err)
		}
	}

	lbs := func(v float64) *float64 { return &v }

	sample := []dogs.Dog{
		{
			Name: "Buddy", Breed: "Golden Retriever", Age: 3, Color: "Golden", Weight: lbs(70.5),
			Temperament:       "Everyone's best friend - gentle, loving, and great with kids",
			IsSafeToPet:       "Yes",
			SafetyExplanation: "Golden Retrievers are known for their gentle temperament. This dog shows typical friendly behavior and poses no safety risks.",
		},
		{
			Name: "Luna", Breed: "German Shepherd", Age: 5, Color: "Black & Tan", Weight: lbs(85.2),
			Temperament:       "Highly intelligent working dog - loyal, protective, and energetic",
			IsSafeToPet:       "Cautiously",
			SafetyExplanation: "German Shepherds are naturally protective. While intelligent and loyal, they can be guarded around strangers and unpredictable.",
		},
		{
			Name: "Max", Breed: "Labrador Retriever", Age: 7, Color: "Chocolate", Weight: lbs(65.0),
			Temperament:       "Gentle giant who loves children, water activities, and fetch",
			IsSafeToPet:       "Yes",
			SafetyExplanation: "Labrador Retrievers are known for their friendly nature. This dog shows excellent temperament around children and is well-socialized.",
		},
		{
			Name: "Bella", Breed: "Beagle", Age: 2, Color: "Tri-color", Weight: lbs(25.8),
			Temperament:       "Playful, curious, and excellent with families - loves to sniff and explore",
			IsSafeToPet:       "Yes",
			SafetyExplanation: "Beagles are typically friendly and great with families. This dog shows normal playful behavior and poses minimal risk.",
		},
		{
			Name: "Rocky", Breed: "Boxer", Age: 4, Color: "Brindle", Weight: lbs(75.3),
			Temperament:       "Territorial, aggressive. Not trained or socialized. Multiple bites on record",
			IsSafeToPet:       "No",
			SafetyExplanation: "This dog has a documented history of aggression and bites. Do not approach under any circumstances. Requires professional training.",
		},
		{
			Name: "Charlie", Breed: "Siberian Husky", Age: 1, Color: "White & Gray", Weight: lbs(55.1),
			Temperament:       "High energy sled dog - independent, intelligent, needs lots of exercise",
			IsSafeToPet:       "Cautiously",
			SafetyExplanation: "Huskies are independent working dogs with high energy. Can be unpredictable and may not respond well to strangers approaching.",
		},
		{
			Name: "Molly", Breed: "French Bulldog", Age: 6, Color: "Fawn", Weight: lbs(28.4),
			Temperament:       "Chill couch potato - calm, friendly, great apartment companion",
			IsSafeToPet:       "Yes",
			SafetyExplanation: "French Bulldogs are typically calm and friendly. This dog shows relaxed temperament and poses no safety concerns.",
		},
		{
			Name: "Zeus", Breed: "Great Dane", Age: 3, Color: "Black", Weight: lbs(145.7),
			Temperament:       "Gentle giant - despite massive size, super sweet and calm with kids",
			IsSafeToPet:       "Yes",
			SafetyExplanation: "Great Danes are known as gentle giants. Despite their size, this dog shows excellent temperament and is great with children.",
		},
	}

	for i, d := range sample {
		d.ID = uuid.NewString()
		// created_at escalonado para que el orden de listado sea estable
		d.CreatedAt = now.Add(time.Duration(i) * time.Second)
		d.UpdatedAt = d.CreatedAt
		if err := dogRepo.Create(ctx, d); err != nil {
			return fmt.Errorf("seed dog %s: %w", d.Name, err)
		}
	}

	return nil
}
