package model

// Record carries one video through the pipeline. It is passed by value and each
// step returns an updated copy; Blog is only set once Transcript is.
type Record struct {
	URL        string
	Transcript string
	Blog       string
}

// NewRecord starts a record for the given video URL.
func NewRecord(url string) Record {
	return Record{URL: url}
}

// WithTranscript returns a copy of r with the transcript replaced.
func (r Record) WithTranscript(text string) Record {
	r.Transcript = text
	return r
}

// WithBlog returns a copy of r with the blog text replaced.
func (r Record) WithBlog(text string) Record {
	r.Blog = text
	return r
}

// Caption is one timed text fragment returned by a caption source.
type Caption struct {
	Text     string
	Start    float64 // seconds
	Duration float64 // seconds; 0 if unknown
}
