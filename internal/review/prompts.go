package review

const systemPrompt = "You are an expert code reviewer."

const reviewPromptTemplate = `
You are an expert code reviewer. Please review the following code diff and provide a detailed review covering:
- Positive aspects
- Areas for improvement
- Potential bugs or issues

Code Diff:
{{.Diff}}

Please output your review in Markdown format.
`
