package domain

// Placeholders substituted into the grounding prompt.
const (
	PlaceholderContext  = "{context}"
	PlaceholderQuestion = "{question}"
)

// DefaultGroundingPrompt is the answer prompt used unless the prompt store
// provides an override. It confines the model to the retrieved context.
const DefaultGroundingPrompt = `
CONTEXT:
{context}

RULES:
- Answer only from the CONTEXT.
- If the information is not explicitly in the CONTEXT, answer:
  "` + RefusalText + `"
- Never make things up or use outside knowledge.
- Never give opinions or interpretations beyond what is written.

EXAMPLES OF QUESTIONS OUTSIDE THE CONTEXT:
Question: "What is the capital of France?"
Answer: "` + RefusalText + `"

Question: "How many customers did we have in 2024?"
Answer: "` + RefusalText + `"

Question: "Do you think this is good or bad?"
Answer: "` + RefusalText + `"

USER QUESTION:
{question}

ANSWER THE "USER QUESTION"
`
