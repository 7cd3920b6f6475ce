package types

// User is a registered account. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Password  string `json:"-" bson:"password"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

func (u *User) View() UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// Chat is one stored question/answer exchange.
type Chat struct {
	ID        string `json:"id" bson:"_id,omitempty"`
	UserID    string `json:"user_id" bson:"user_id"`
	Message   string `json:"message" bson:"message"`
	Response  string `json:"response" bson:"response"`
	CreatedAt int64  `json:"created_at" bson:"created_at"`
	UpdatedAt int64  `json:"updated_at" bson:"updated_at"`
}

// MedicineRecord is a recommendation kept for later review.
type MedicineRecord struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Name         string `json:"name" bson:"name"`
	Symptom      string `json:"symptom" bson:"symptom"`
	Description  string `json:"description" bson:"description"`
	Dosage       string `json:"dosage" bson:"dosage"`
	PurchaseLink string `json:"purchase_link" bson:"purchase_link"`
	CreatedAt    int64  `json:"created_at" bson:"created_at"`
}
