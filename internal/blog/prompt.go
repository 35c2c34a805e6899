package blog

import "fmt"

// NoBlogMessage is what the model is told to answer when there is no transcript.
const NoBlogMessage = "no blog for given link"

const blogPrompt = `Create a blog post using the following transcript. The blog should include:

1. A **Title**
2. A **Description** (main body content)
3. A **Conclusion**

Transcript:
%s

If there is no transcript, simply return the message "%s" as the blog.
`

// BuildPrompt embeds the transcript verbatim in the blog-writing prompt.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf(blogPrompt, transcript, NoBlogMessage)
}
