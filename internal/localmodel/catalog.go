// Package localmodel manages the on-device model catalog: simulated
// downloads, deletion and selection.
package localmodel

import "github.com/rcliao/record-and-post/internal/model"

// Catalog is the compiled-in list of on-device models.
func Catalog() []model.LocalModel {
	return []model.LocalModel{
		{
			ID:          "gemma-2b-it-q4f16_1",
			Name:        "Gemma 2B IT",
			Family:      "Google",
			Size:        "1.4 GB",
			Description: "Lightweight instruction-tuned model by Google.",
			Status:      model.ModelAvailable,
		},
		{
			ID:          "phi-3-mini-4k-instruct-q4f16_1",
			Name:        "Phi-3 Mini",
			Family:      "Microsoft",
			Size:        "2.3 GB",
			Description: "High reasoning capability in a small package.",
			Status:      model.ModelAvailable,
		},
		{
			ID:          "tinyllama-1.1b-chat-v1.0-q4f16_1",
			Name:        "TinyLlama 1.1B",
			Family:      "Open Source",
			Size:        "640 MB",
			Description: "Extremely fast, suitable for older devices.",
			Status:      model.ModelAvailable,
		},
		{
			ID:          "llama-3-8b-instruct-q4f16_1",
			Name:        "Llama 3 8B",
			Family:      "Meta",
			Size:        "4.7 GB",
			Description: "State-of-the-art open model. Requires high RAM.",
			Status:      model.ModelAvailable,
		},
	}
}
