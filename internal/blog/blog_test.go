package blog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"yt2blog/internal/model"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestBuildPromptEmbedsTranscriptVerbatim(t *testing.T) {
	tests := []string{
		"Hello world",
		"",
		"Invalid YouTube URL.",
		"100% sure {braces} and %s verbs <b>tags</b>\nnew line",
		strings.Repeat("long transcript ", 5000),
	}
	for _, tr := range tests {
		p := BuildPrompt(tr)
		if !strings.Contains(p, "Transcript:\n"+tr+"\n") {
			t.Errorf("prompt does not contain transcript %q verbatim", truncate(tr))
		}
		for _, want := range []string{"**Title**", "**Description**", "**Conclusion**", NoBlogMessage} {
			if !strings.Contains(p, want) {
				t.Errorf("prompt missing %q", want)
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	llm := &fakeCompleter{reply: "# A Title\nBody\n## Conclusion"}
	g := NewGenerator(llm, quiet())
	in := model.NewRecord("https://www.youtube.com/watch?v=abc").WithTranscript("Hello world")

	out, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Blog != llm.reply {
		t.Errorf("Blog = %q", out.Blog)
	}
	if out.URL != in.URL || out.Transcript != in.Transcript {
		t.Errorf("url/transcript changed: %+v", out)
	}
	if in.Blog != "" {
		t.Errorf("input record mutated: %+v", in)
	}
	if len(llm.prompts) != 1 || llm.prompts[0] != BuildPrompt("Hello world") {
		t.Errorf("prompts = %v", llm.prompts)
	}
}

func TestGeneratePassesSentinelTranscript(t *testing.T) {
	llm := &fakeCompleter{reply: "no blog for given link"}
	g := NewGenerator(llm, quiet())
	in := model.NewRecord("https://www.youtube.com/watch").WithTranscript("Invalid YouTube URL.")

	out, err := g.Generate(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(llm.prompts[0], "Invalid YouTube URL.") {
		t.Error("sentinel transcript not sent to the model")
	}
	if out.Blog != "no blog for given link" {
		t.Errorf("Blog = %q", out.Blog)
	}
}

func TestGenerateError(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := NewGenerator(&fakeCompleter{err: boom}, quiet())
	in := model.NewRecord("u").WithTranscript("t")

	out, err := g.Generate(context.Background(), in)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if out != in {
		t.Errorf("record changed on error: %+v", out)
	}
}

func TestGenerateWithoutModel(t *testing.T) {
	if _, err := NewGenerator(nil, quiet()).Generate(context.Background(), model.NewRecord("u")); err == nil {
		t.Fatal("expected error")
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
