package types

// DataResponse is the generic envelope for failures and plain acknowledgements.
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignupResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

type LoginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
	Message string   `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Medicine struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Dosage      string `json:"dosage"`
	Precautions string `json:"precautions,omitempty"`
	Ingredients string `json:"ingredients,omitempty"`
	Benefits    string `json:"benefits,omitempty"`
	BuyLink     string `json:"buyLink"`
}

type MedicineResponse struct {
	Success  bool      `json:"success"`
	Medicine *Medicine `json:"medicine"`
}

// LifestylePrediction is what the external lifestyle model prints on stdout.
type LifestylePrediction struct {
	Score       float64  `json:"score"`
	Status      string   `json:"status"`
	Suggestions []string `json:"suggestions"`
}

type EnhancedSuggestion struct {
	Original string `json:"original"`
	Advice   string `json:"advice"`
}

type LifestyleMetrics struct {
	Sleep    float64 `json:"sleep"`
	Food     float64 `json:"food"`
	Exercise float64 `json:"exercise"`
	Stress   float64 `json:"stress"`
	Energy   float64 `json:"energy"`
	Water    float64 `json:"water"`
}

type LifestyleResult struct {
	Score               float64              `json:"score"`
	Status              string               `json:"status"`
	Suggestions         []string             `json:"suggestions"`
	EnhancedSuggestions []EnhancedSuggestion `json:"enhancedSuggestions"`
	Metrics             LifestyleMetrics     `json:"metrics"`
}

type LifestyleResponse struct {
	Success bool             `json:"success"`
	Data    *LifestyleResult `json:"data"`
}
