package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/types"
	"golang.org/x/sync/errgroup"
)

// AdviceUnavailable replaces the advice of a suggestion the model could not
// expand.
const AdviceUnavailable = "AI advice unavailable."

const adviceConcurrency = 4

// ErrInvalidLifestyle wraps questionnaire validation failures.
var ErrInvalidLifestyle = errors.New("invalid lifestyle input")

// LifestyleModel scores a questionnaire.
type LifestyleModel interface {
	Predict(ctx context.Context, req *types.LifestyleRequest) (*types.LifestylePrediction, error)
}

// ProcessModel runs an external program that reads the questionnaire as JSON
// on stdin and prints a prediction as JSON on stdout.
type ProcessModel struct {
	command string
	args    []string
	timeout time.Duration
}

func NewProcessModel(command string, args []string, timeout time.Duration) *ProcessModel {
	return &ProcessModel{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

func (m *ProcessModel) Predict(ctx context.Context, req *types.LifestyleRequest) (*types.LifestylePrediction, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode lifestyle input: %w", err)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, fmt.Errorf("lifestyle model: %w", err)
	}

	var prediction types.LifestylePrediction
	if err := json.Unmarshal(stdout.Bytes(), &prediction); err != nil {
		return nil, fmt.Errorf("decode lifestyle model output: %w", err)
	}
	return &prediction, nil
}

type LifestyleService interface {
	Assess(ctx context.Context, req *types.LifestyleRequest) (*types.LifestyleResult, error)
}

type lifestyleService struct {
	model    LifestyleModel
	ai       AIService
	validate *validator.Validate
	timeout  time.Duration
}

func NewLifestyleService(model LifestyleModel, ai AIService, timeout time.Duration) LifestyleService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	return &lifestyleService{
		model:    model,
		ai:       ai,
		validate: validate,
		timeout:  timeout,
	}
}

func (s *lifestyleService) Assess(ctx context.Context, req *types.LifestyleRequest) (*types.LifestyleResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	prediction, err := s.model.Predict(ctx, req)
	if err != nil {
		return nil, err
	}

	return &types.LifestyleResult{
		Score:               prediction.Score,
		Status:              prediction.Status,
		Suggestions:         prediction.Suggestions,
		EnhancedSuggestions: s.enhance(ctx, prediction.Suggestions),
		Metrics: types.LifestyleMetrics{
			Sleep:    req.SleepAvg,
			Food:     req.FoodAvg,
			Exercise: req.ExerciseAvg,
			Stress:   req.StressAvg,
			Energy:   req.EnergyAvg,
			Water:    req.WaterAvg,
		},
	}, nil
}

// enhance asks for advice on every suggestion concurrently. Failures only
// affect their own entry.
func (s *lifestyleService) enhance(ctx context.Context, suggestions []string) []types.EnhancedSuggestion {
	enhanced := make([]types.EnhancedSuggestion, len(suggestions))

	var g errgroup.Group
	g.SetLimit(adviceConcurrency)
	for i, suggestion := range suggestions {
		i, suggestion := i, suggestion
		g.Go(func() error {
			enhanced[i] = types.EnhancedSuggestion{
				Original: suggestion,
				Advice:   s.advice(ctx, suggestion),
			}
			return nil
		})
	}
	_ = g.Wait()
	return enhanced
}

func (s *lifestyleService) advice(ctx context.Context, suggestion string) string {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	text, err := s.ai.Generate(ctx, AdvicePrompt(suggestion))
	if err != nil {
		log.Warn().Err(err).Str("suggestion", suggestion).Msg("Lifestyle advice failed")
		return AdviceUnavailable
	}
	return text
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidLifestyle, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidLifestyle, strings.Join(msgs, "; "))
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
