package service

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagequeue/pagequeue/internal/transfer"
)

// CaptionService produces template-based captions from an image name plus
// time-of-day context, with a handful of variations to choose from.
type CaptionService interface {
	Generate(imageName, customPrompt string) transfer.CaptionResult
}

type captionService struct {
	now  func() time.Time
	pick func(n int) int
}

func NewCaptionService() CaptionService {
	return &captionService{now: time.Now, pick: rand.Intn}
}

// NewCaptionServiceWithSources allows injecting the clock and the randomness
// source.
func NewCaptionServiceWithSources(now func() time.Time, pick func(n int) int) CaptionService {
	return &captionService{now: now, pick: pick}
}

func (s *captionService) Generate(imageName, customPrompt string) transfer.CaptionResult {
	base := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	caption := s.smartCaption(base)
	if customPrompt != "" {
		caption = customPrompt + " " + caption
	}

	return transfer.CaptionResult{
		Caption:    caption,
		Variations: captionVariations(caption),
	}
}

func (s *captionService) smartCaption(imageName string) string {
	now := s.now()
	filename := strings.ToLower(imageName)

	var timeContext string
	switch hour := now.Hour(); {
	case hour >= 6 && hour < 12:
		timeContext = "morning"
	case hour >= 12 && hour < 17:
		timeContext = "afternoon"
	case hour >= 17 && hour < 21:
		timeContext = "evening"
	default:
		timeContext = "night"
	}

	contentType := "moment"
	switch {
	case strings.Contains(filename, "food") || strings.Contains(filename, "meal"):
		contentType = "delicious treat"
	case strings.Contains(filename, "nature") || strings.Contains(filename, "landscape"):
		contentType = "beautiful nature"
	case strings.Contains(filename, "selfie") || strings.Contains(filename, "portrait"):
		contentType = "perfect selfie"
	case strings.Contains(filename, "city") || strings.Contains(filename, "urban"):
		contentType = "city vibes"
	case strings.Contains(filename, "travel") || strings.Contains(filename, "vacation"):
		contentType = "travel adventure"
	case strings.Contains(filename, "sunset") || strings.Contains(filename, "sunrise"):
		contentType = "golden hour magic"
	}

	day := now.Weekday().String()
	captions := []string{
		fmt.Sprintf("Perfect %s %s", timeContext, contentType),
		fmt.Sprintf("Amazing %s this %s", contentType, timeContext),
		fmt.Sprintf("Beautiful %s captured", contentType),
		fmt.Sprintf("Love this %s %s", timeContext, contentType),
		fmt.Sprintf("Stunning %s vibes", contentType),
		fmt.Sprintf("%s %s %s", day, timeContext, contentType),
		fmt.Sprintf("This %s made my %s", contentType, timeContext),
		fmt.Sprintf("Sharing this beautiful %s", contentType),
	}

	return captions[s.pick(len(captions))]
}

func captionVariations(base string) []string {
	return []string{
		base,
		fmt.Sprintf("%s #photooftheday", base),
		fmt.Sprintf("%s #beautiful #amazing", base),
		fmt.Sprintf("Love this! %s", base),
		fmt.Sprintf("Check this out: %s", base),
	}
}
