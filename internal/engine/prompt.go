package engine

// LLM prompt templates — data only, no logic.

// summarizePrompt asks for a short structured summary of a transcript.
// Args: transcript text.
const summarizePrompt = `Summarize this YouTube video transcript in 3-5 bullet points:

%s`

// answerPrompt asks a question against a transcript, and nothing else.
// Args: transcript text, question.
const answerPrompt = `The following is a transcript from a YouTube video:

Transcript:
%s

Based only on the information in this transcript, please answer the following question:
%s

If the transcript doesn't contain information to answer this question, please state that clearly.`
