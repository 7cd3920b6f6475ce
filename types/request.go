package types

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MedicineRequest struct {
	Symptom string `json:"symptom"`
}

// LifestyleRequest is the questionnaire sent to the lifestyle model. Daily
// averages are on a 1-5 scale.
type LifestyleRequest struct {
	Age         float64 `json:"age" validate:"required,min=1,max=120"`
	SleepAvg    float64 `json:"sleep_avg" validate:"required,min=1,max=5"`
	FoodAvg     float64 `json:"food_avg" validate:"required,min=1,max=5"`
	ExerciseAvg float64 `json:"exercise_avg" validate:"required,min=1,max=5"`
	StressAvg   float64 `json:"stress_avg" validate:"required,min=1,max=5"`
	EnergyAvg   float64 `json:"energy_avg" validate:"required,min=1,max=5"`
	WaterAvg    float64 `json:"water_avg" validate:"required,min=1,max=5"`
}
