package ast

// WalkStatus controls the traversal performed by Walk.
type WalkStatus int

const (
	// WalkStop stops the traversal.
	WalkStop WalkStatus = iota + 1
	// WalkSkipChildren skips the children of the current node. The exit call for the node is still made.
	WalkSkipChildren
	// WalkContinue continues the traversal.
	WalkContinue
)

// A Walker is called twice for each node visited by Walk: once before its children are visited (enter is true) and
// once after (enter is false).
type Walker func(n NodeID, enter bool) (WalkStatus, error)

// Walk performs a depth-first traversal of the subtree rooted at n.
func Walk(t *Tree, n NodeID, walker Walker) error {
	_, err := walk(t, n, walker)
	return err
}

func walk(t *Tree, n NodeID, walker Walker) (WalkStatus, error) {
	status, err := walker(n, true)
	if err != nil || status == WalkStop {
		return WalkStop, err
	}
	if status != WalkSkipChildren {
		for c := t.FirstChild(n); c != None; c = t.NextSibling(c) {
			if st, err := walk(t, c, walker); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	if status, err = walker(n, false); err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}
