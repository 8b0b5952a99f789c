package openai

const assessmentSystemPrompt = `You are an expert finance career advisor specializing in AI-proof industries:
Investment Banking, Sales & Trading, Portfolio Management, Risk Management, and M&A Advisory.

Analyze the following resume and provide a JSON response with these exact fields:
1. overall_score (integer 0-100): How competitive is this resume for top-tier finance roles?
2. strengths (array of 3-5 strings): Specific strengths
3. weaknesses (array of 3-5 strings): Specific areas for improvement
4. industry_compatibility (object): Score 0-100 for each AI-proof industry:
   - "Investment Banking"
   - "Sales & Trading"
   - "Portfolio Management"
   - "Risk Management"
   - "M&A Advisory"

Respond with ONLY valid JSON, no other text.`

// The model sees at most the head of the resume; anything past the cutoff
// rarely changes the verdict and only burns tokens.
const maxResumeSnippet = 3000

func buildAssessmentUserPrompt(resumeText string) string {
	snippet := resumeText
	if len(snippet) > maxResumeSnippet {
		snippet = snippet[:maxResumeSnippet]
	}
	return "Resume Text:\n" + snippet + "\n\nProvide the assessment in JSON format."
}
