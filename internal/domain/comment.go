package domain

import "strings"

// PlaceholderCommentAuthor is attached to every comment; comments are not
// tied to the signed-in user.
const PlaceholderCommentAuthor = "Ronald Richards"

type Comment struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// CommentThread is the ordered, page-local comment list of one article view.
// Insertion order is display order, newest last.
type CommentThread struct {
	ArticleID string
	comments  []Comment
}

func NewCommentThread(articleID string, texts []string) *CommentThread {
	t := &CommentThread{ArticleID: articleID}
	for _, text := range texts {
		t.Add(text)
	}
	return t
}

// Add trims text and appends it. Empty or whitespace-only text is rejected
// and leaves the thread unchanged.
func (t *CommentThread) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	t.comments = append(t.comments, Comment{Text: text, Author: PlaceholderCommentAuthor})
	return true
}

func (t *CommentThread) Comments() []Comment {
	out := make([]Comment, len(t.comments))
	copy(out, t.comments)
	return out
}

func (t *CommentThread) Texts() []string {
	out := make([]string, 0, len(t.comments))
	for _, c := range t.comments {
		out = append(out, c.Text)
	}
	return out
}

func (t *CommentThread) Len() int {
	return len(t.comments)
}
