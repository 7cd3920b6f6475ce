package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/types"
)

var (
	ErrEmptySymptom  = errors.New("Symptom is required")
	ErrParseResponse = errors.New("Failed to parse AI response")
)

const buyLinkBase = "https://www.amazon.in/s"

// Cache is a string cache; a miss is reported by the bool.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type MedicineService interface {
	Recommend(ctx context.Context, symptom string) (*types.Medicine, error)
}

type medicineService struct {
	ai      AIService
	repo    repository.MedicineRepo
	cache   Cache
	timeout time.Duration
}

// NewMedicineService wires the recommender. repo and cache are optional.
func NewMedicineService(ai AIService, repo repository.MedicineRepo, cache Cache, timeout time.Duration) MedicineService {
	return &medicineService{
		ai:      ai,
		repo:    repo,
		cache:   cache,
		timeout: timeout,
	}
}

func (s *medicineService) Recommend(ctx context.Context, symptom string) (*types.Medicine, error) {
	if strings.TrimSpace(symptom) == "" {
		return nil, ErrEmptySymptom
	}

	key := medicineCacheKey(symptom)
	if medicine, ok := s.cached(ctx, key); ok {
		return medicine, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.ai.Generate(ctx, MedicinePrompt(symptom))
	if err != nil {
		return nil, upstream(err)
	}

	medicine, err := ParseMedicine(text)
	if err != nil {
		log.Warn().Err(err).Str("response", text).Msg("Failed to parse AI response")
		return nil, ErrParseResponse
	}

	s.store(ctx, key, symptom, medicine)
	return medicine, nil
}

func (s *medicineService) cached(ctx context.Context, key string) (*types.Medicine, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("Medicine cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var medicine types.Medicine
	if err := json.Unmarshal([]byte(val), &medicine); err != nil {
		return nil, false
	}
	return &medicine, true
}

func (s *medicineService) store(ctx context.Context, key, symptom string, medicine *types.Medicine) {
	if s.cache != nil {
		if data, err := json.Marshal(medicine); err == nil {
			if err := s.cache.Set(ctx, key, string(data)); err != nil {
				log.Warn().Err(err).Msg("Medicine cache write failed")
			}
		}
	}

	if s.repo != nil {
		record := &types.MedicineRecord{
			Name:         medicine.Name,
			Symptom:      symptom,
			Description:  medicine.Description,
			Dosage:       medicine.Dosage,
			PurchaseLink: medicine.BuyLink,
			CreatedAt:    time.Now().Unix(),
		}
		if err := s.repo.CreateMedicine(ctx, record); err != nil {
			log.Warn().Err(err).Msg("Failed to record medicine recommendation")
		}
	}
}

// ParseMedicine decodes the model's JSON answer, tolerating markdown fences,
// and fills in the purchase link.
func ParseMedicine(text string) (*types.Medicine, error) {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var medicine types.Medicine
	if err := json.Unmarshal([]byte(cleaned), &medicine); err != nil {
		return nil, err
	}
	medicine.BuyLink = BuyLink(medicine.Name)
	return &medicine, nil
}

func BuyLink(name string) string {
	return buyLinkBase + "?" + url.Values{"k": {name}}.Encode()
}

func medicineCacheKey(symptom string) string {
	return "medicine:" + strings.ToLower(strings.Join(strings.Fields(symptom), " "))
}
