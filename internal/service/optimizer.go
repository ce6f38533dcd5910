package service

import (
	"fmt"
	"strings"
)

// optimizerSystemPrompt frames the model as a video prompt specialist. Tuned
// for MiniMax T2V output; changing it changes the tone of every optimization.
const optimizerSystemPrompt = `You are an expert AI video prompt optimizer specializing in creating professional prompts for AI video generation models like MiniMax T2V. Your expertise includes:

- Film production techniques and cinematography
- Visual effects and post-production
- Animation styles and cartoon aesthetics
- Music video production (especially Cole Bennett/Lyrical Lemonade style)
- Advanced camera movements and lighting setups

Transform basic prompts into detailed, professional video generation prompts that will produce stunning results.

Guidelines:
- Be extremely specific about visual elements, lighting, and composition
- Include technical camera details and movements
- Specify mood, atmosphere, and aesthetic style
- Add post-production effects when relevant
- Consider realistic vs stylized balance
- Focus on cinematic storytelling elements
- Keep prompts detailed but well-structured`

// OptimizeRequest carries the raw prompt and the optional creative parameters
// the client collected from the user.
type OptimizeRequest struct {
	Prompt           string   `json:"prompt"`
	Style            string   `json:"style"`
	CartoonStyle     string   `json:"cartoonStyle"`
	Duration         string   `json:"duration"`
	CameraMovement   string   `json:"cameraMovement"`
	Lighting         string   `json:"lighting"`
	Effects          []string `json:"effects"`
	RealisticLevel   *int     `json:"realisticLevel"`
	HideTextOnScreen bool     `json:"hideTextOnScreen"`
}

// OptimizerSystemPrompt returns the system message used for prompt optimization.
func OptimizerSystemPrompt() string {
	return optimizerSystemPrompt
}

// RenderOptimizerMessage builds the user message sent to the completion model,
// annotating the prompt with whichever parameters were supplied.
func RenderOptimizerMessage(req OptimizeRequest) string {
	var styleDetails strings.Builder
	if req.Style != "" {
		styleDetails.WriteString("Style: " + req.Style)
		switch {
		case req.Style == "cartoon" && req.CartoonStyle != "":
			styleDetails.WriteString(fmt.Sprintf(" (specifically %s style)", req.CartoonStyle))
		case req.Style == "cole-bennett":
			styleDetails.WriteString(" - Include vibrant colors, creative transitions, animated elements, dynamic camera work, and surreal visual effects typical of Lyrical Lemonade music videos")
		case req.Style == "trippy":
			styleDetails.WriteString(" - Include psychedelic colors, warping effects, kaleidoscope patterns, and mind-bending visuals")
		case req.Style == "glitch":
			styleDetails.WriteString(" - Include digital glitch effects, data corruption aesthetics, and cyberpunk elements")
		}
		styleDetails.WriteString("\n")
	}

	var params strings.Builder
	params.WriteString(styleDetails.String())
	if req.Duration != "" {
		params.WriteString("Duration: " + req.Duration + "\n")
	}
	if req.CameraMovement != "" {
		params.WriteString("Camera movement: " + req.CameraMovement + "\n")
	}
	if req.Lighting != "" {
		params.WriteString("Lighting: " + req.Lighting + "\n")
	}
	if len(req.Effects) > 0 {
		params.WriteString("Effects: " + strings.Join(req.Effects, ", ") + "\n")
	}
	if req.RealisticLevel != nil {
		params.WriteString(fmt.Sprintf("Realistic level: %d%% (0=highly stylized, 100=photorealistic)\n", *req.RealisticLevel))
	}
	if req.HideTextOnScreen {
		params.WriteString("Note: Ensure no visible text or captions appear in the video\n")
	}

	return fmt.Sprintf("Optimize this video prompt: \"%s\"\n\nParameters:\n%s\nReturn ONLY the optimized prompt without explanations or additional text.", req.Prompt, params.String())
}
