package synth

import (
	"fmt"
	"strings"
)

// EditPrompt builds the instruction sent with a base image for an edit.
// style is an optional style suffix.
func EditPrompt(instruction, style string) string {
	var b strings.Builder
	b.WriteString("You are an expert image editor and digital artist.\n")
	b.WriteString("YOUR TASK: Modify the attached reference image based strictly on the user's instruction.\n\n")
	fmt.Fprintf(&b, "User Instruction: %q\n", instruction)
	if style != "" {
		fmt.Fprintf(&b, "Target Style: %s\n", style)
	}
	b.WriteString(`
CRITICAL RULES:
1. USE THE ATTACHED IMAGE AS THE FOUNDATION. Do not generate a completely new random image.
2. Apply the requested changes (e.g., add elements, change background, change style) to the existing subject/composition.
3. Maintain high quality, clear outlines, and vivid colors.
4. If asked to remove background, ensure pure white (#FFFFFF) background.
5. Output as a high-quality 2D digital art/sticker.
`)
	return b.String()
}

// MockupPrompt builds the instruction sent with a flattened artwork to
// place it on a product.
func MockupPrompt(product string, v Variation) string {
	var b strings.Builder
	b.WriteString("You are an expert product photographer and mockup generator.\n")
	b.WriteString("YOUR TASK: Take the attached artwork/design and realistically apply it to the product described below.\n\n")
	fmt.Fprintf(&b, "Product Description: %q\n", product)
	fmt.Fprintf(&b, "Context/Vibe: %s (Variation ID: %d)\n", v.Vibe, v.ID)
	b.WriteString(`
CRITICAL RULES:
1. The attached image MUST be the design printed/stamped on the product.
2. Do NOT change the design itself, just apply it to the 3D surface of the product.
3. Ensure realistic lighting, shadows, and fabric/material texture.
4. The output must be a high-quality photo of the product with the design.
5. Do not add random text or watermarks.
`)
	return b.String()
}

// GeneratePrompt builds the instruction for creating a sticker from text
// alone.
func GeneratePrompt(subject, style string) string {
	var b strings.Builder
	b.WriteString("Generate a high-quality 2D digital art sticker or clipart.\n")
	fmt.Fprintf(&b, "Subject: %s.\n", subject)
	if style != "" {
		fmt.Fprintf(&b, "Style Details: %s\n", style)
	}
	b.WriteString(`Requirements:
- White background (pure white #FFFFFF).
- Clear defined outlines.
- No text inside the image.
- High contrast, vivid colors.
- Vector art style suitable for t-shirt printing.
`)
	return b.String()
}
