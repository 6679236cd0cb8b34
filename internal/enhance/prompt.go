// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package enhance

import (
	"fmt"
	"strings"
)

// maxWords is the length limit requested from the model.
const maxWords = 200

// buildPrompt creates the rewrite instruction for a post.
func buildPrompt(title, content string) string {
	var sb strings.Builder

	sb.WriteString("Enhance the following post for a professional Bengali website.\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", title))
	sb.WriteString(fmt.Sprintf("Raw Content: %s\n\n", content))
	sb.WriteString("Requirements:\n")
	sb.WriteString("1. Make it more engaging, professional, and grammatically perfect in Bengali.\n")
	sb.WriteString(fmt.Sprintf("2. Keep it concise (max %d words).\n", maxWords))
	sb.WriteString("3. Use standard Bengali vocabulary (Shuddho Bhasha).\n")
	sb.WriteString("4. Return only the enhanced text.")

	return sb.String()
}

// cleanResponse strips whitespace and a surrounding markdown code fence that
// some models add despite the instruction.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
