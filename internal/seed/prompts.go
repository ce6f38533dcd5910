// Package seed provides built-in and development data for the application
// database.
package seed

import (
	"context"
	"log"

	"genie/internal/models"
	"genie/internal/repository"

	"gorm.io/gorm"
)

// builtInPrompts is the starter prompt library shown to every user. Seeded
// once on an empty table; existing libraries are left untouched.
func builtInPrompts() []models.Prompt {
	return []models.Prompt{
		{
			Title:       "Cinematic Drone Shot",
			Description: "Sweeping aerial footage with dramatic lighting",
			Content:     "A cinematic drone shot flying over a misty mountain range at golden hour, volumetric light rays breaking through clouds, slow forward camera movement",
			Category:    "video",
			Icon:        "video",
			IconColor:   "text-purple-600",
			BgColor:     "bg-purple-100",
			Featured:    true,
		},
		{
			Title:       "Lyrical Lemonade Style",
			Description: "Vibrant music video aesthetics with surreal transitions",
			Content:     "A high-energy music video scene with vibrant saturated colors, creative animated overlays, dynamic whip-pan transitions, and surreal visual effects",
			Category:    "video",
			Icon:        "music",
			IconColor:   "text-yellow-600",
			BgColor:     "bg-yellow-100",
			Premium:     true,
			Featured:    true,
		},
		{
			Title:       "Explain Like I'm Five",
			Description: "Break down complex topics into simple terms",
			Content:     "Explain the following topic as if I were five years old, using simple words and a fun analogy: ",
			Category:    "chat",
			Icon:        "lightbulb",
			IconColor:   "text-blue-600",
			BgColor:     "bg-blue-100",
			Featured:    true,
		},
		{
			Title:       "Code Reviewer",
			Description: "Get detailed feedback on your code",
			Content:     "Review the following code for bugs, style issues, and performance problems. Suggest concrete improvements: ",
			Category:    "chat",
			Icon:        "code",
			IconColor:   "text-green-600",
			BgColor:     "bg-green-100",
			Featured:    true,
		},
		{
			Title:       "Cyberpunk City",
			Description: "Neon-drenched futuristic cityscape",
			Content:     "A rain-slicked cyberpunk city street at night, neon signs reflecting in puddles, steam rising from grates, slow tracking shot following a lone figure",
			Category:    "video",
			Icon:        "building",
			IconColor:   "text-pink-600",
			BgColor:     "bg-pink-100",
			Premium:     true,
		},
		{
			Title:       "Story Starter",
			Description: "Kick off a creative writing session",
			Content:     "Write the opening paragraph of a short story in the genre of my choice. Ask me for the genre first.",
			Category:    "chat",
			Icon:        "book",
			IconColor:   "text-orange-600",
			BgColor:     "bg-orange-100",
		},
		{
			Title:       "Nature Timelapse",
			Description: "Time compression of natural phenomena",
			Content:     "A timelapse of a flower blooming in a sunlit meadow, dew drops glistening, shallow depth of field, macro lens detail",
			Category:    "video",
			Icon:        "leaf",
			IconColor:   "text-green-600",
			BgColor:     "bg-green-100",
		},
		{
			Title:       "Interview Prep Coach",
			Description: "Practice answers to tough interview questions",
			Content:     "Act as an interview coach for the role I describe. Ask me one question at a time and critique my answers.",
			Category:    "chat",
			Icon:        "briefcase",
			IconColor:   "text-indigo-600",
			BgColor:     "bg-indigo-100",
		},
	}
}

// Prompts seeds the built-in prompt library when the table is empty.
func Prompts(db *gorm.DB) error {
	repo := repository.NewPromptRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	prompts := builtInPrompts()
	if err := repo.CreateBatch(ctx, prompts); err != nil {
		return err
	}
	log.Printf("Seeded %d built-in prompts", len(prompts))
	return nil
}
