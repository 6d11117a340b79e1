package comments

import "github.com/MosinFAM/connecthub/internal/models"

// Node is a comment with its direct replies in creation order.
type Node struct {
	models.Comment
	Replies []*Node `json:"replies"`
}

// BuildTree turns a flat, created_at-ascending comment list into a forest of
// root comments. Each comment appears exactly once; reply lists and the root
// list keep the input order. A comment whose parent is not in the input is
// promoted to a root (creation-side validation makes that unreachable for
// new rows, but old data must not vanish from the output).
func BuildTree(flat []models.Comment) []*Node {
	index := make(map[int64]*Node, len(flat))
	for i := range flat {
		index[flat[i].ID] = &Node{Comment: flat[i], Replies: []*Node{}}
	}

	roots := []*Node{}
	for i := range flat {
		node := index[flat[i].ID]
		if flat[i].ParentID != nil {
			if parent, ok := index[*flat[i].ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
