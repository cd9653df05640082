package agent

import "fmt"

// VerdictPass and VerdictFail are the literal marker lines the technical
// review report must end with. The pipeline's verdict parser matches them;
// anything else is treated as a failure.
const (
	VerdictPass = "Final verdict: PASS"
	VerdictFail = "Final verdict: FAIL"
)

func technicalPrompt(title, body string) string {
	return fmt.Sprintf(`You are a senior backend engineer reviewing a technical blog post for accuracy.

Read the article below and list every technical problem you find, including:
1) wrong or imprecise concepts; 2) insecure or outdated practices;
3) bugs in example code; 4) SQL, transaction, or concurrency hazards.

Output Markdown with two sections:
1. Overall assessment
2. Issue list (each item: category, location, quoted excerpt, explanation, suggested fix)

On the very last line of the report, output exactly one of:
%q or %q

Article title: %s

Article body:
%s`, VerdictPass, VerdictFail, title, body)
}

func stylePrompt(title, body string) string {
	return fmt.Sprintf(`You are a technical writing analyst reviewing a blog post's language and structure.

Comment on:
1. Which programming languages the article covers
2. Which technology stacks it uses
3. Whether it reads as learning notes or professional work
4. Whether it is original writing or adapted material

Output format:
1. Overall assessment
2. Concrete improvement suggestions, grouped by section

Article title: %s

Article body:
%s`, title, body)
}

func summaryPrompt(technical, style string) string {
	return fmt.Sprintf(`You summarize review findings for a technical blog post. Based on the
technical report and the style report below, summarize the article's main problems.

Requirements:
1. 3-6 bullet points covering the most important problems and risks
2. Explain in plain language why each needs fixing
3. Assign a priority (high/medium/low) where useful

Technical report:
%s

Style report:
%s`, technical, style)
}

func rewritePrompt(title, body, technical, style string) string {
	return fmt.Sprintf(`You are the author's editing assistant. Revise the article while preserving
the author's intent and general voice.

Guided by the technical and style reports (either may be empty):
1. Fix every clearly identified technical error
2. Adjust structure, paragraphs, and headings per the style suggestions
3. Keep the target audience and difficulty level unchanged
4. Output the complete revised article, including title and section headings

Original title: %s

Original body:
%s

Technical report:
%s

Style report:
%s`, title, body, technical, style)
}
