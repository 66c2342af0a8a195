package dom

import (
	"strings"
	"sync"
)

// Elements with these tags can never have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// Node is anything that can be placed in a document's element tree.
type Node interface {
	ParentNode() Container
	OwnerDocument() *Document
	setParent(parent Container)
}

// Container is a node that other nodes can be attached to.
type Container interface {
	Node
	AcceptsChildren() bool
	AppendChild(child Node) error
	RemoveChild(child Node) error
	ChildNodes() []Node
}

// IsContainer reports whether c is a usable attachment point. A nil Container, a typed nil,
// and a void element all report false.
func IsContainer(c Container) bool {
	return c != nil && c.AcceptsChildren()
}

type Element struct {
	tag      string
	document *Document
	attrs    map[string]string
	parent   Container
	children []Node
	lock     sync.Mutex
}

// CreateElement creates a detached element owned by the document.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{
		tag:      strings.ToLower(tag),
		document: d,
		attrs:    make(map[string]string),
	}
}

func (e *Element) TagName() string {
	return e.tag
}

func (e *Element) OwnerDocument() *Document {
	return e.document
}

func (e *Element) ParentNode() Container {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.parent
}

func (e *Element) setParent(parent Container) {
	e.lock.Lock()
	e.parent = parent
	e.lock.Unlock()
}

func (e *Element) SetAttribute(name, value string) {
	e.lock.Lock()
	e.attrs[strings.ToLower(name)] = value
	e.lock.Unlock()
}

func (e *Element) GetAttribute(name string) (string, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	value, ok := e.attrs[strings.ToLower(name)]
	return value, ok
}

func (e *Element) AcceptsChildren() bool {
	return e != nil && !voidElements[e.tag]
}

func (e *Element) ChildNodes() []Node {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]Node(nil), e.children...)
}

// AppendChild attaches child as the last child of e, first detaching it from its current
// parent if it has one.
func (e *Element) AppendChild(child Node) error {
	if !e.AcceptsChildren() {
		return ErrNotContainer
	}
	if child == nil {
		return ErrNotChild
	}
	if child.OwnerDocument() != e.document {
		return ErrWrongDocument
	}
	if isInclusiveAncestor(child, e) {
		return ErrHierarchy
	}
	if old := child.ParentNode(); old != nil {
		if err := old.RemoveChild(child); err != nil {
			return err
		}
	}
	e.lock.Lock()
	e.children = append(e.children, child)
	e.lock.Unlock()
	child.setParent(e)
	return nil
}

func (e *Element) RemoveChild(child Node) error {
	e.lock.Lock()
	index := -1
	for i, c := range e.children {
		if c == child {
			index = i
			break
		}
	}
	if index < 0 {
		e.lock.Unlock()
		return ErrNotChild
	}
	e.children = append(e.children[:index:index], e.children[index+1:]...)
	e.lock.Unlock()
	child.setParent(nil)
	return nil
}

func isInclusiveAncestor(ancestor Node, n Node) bool {
	for cur := n; cur != nil; {
		if cur == ancestor {
			return true
		}
		parent := cur.ParentNode()
		if parent == nil {
			return false
		}
		cur = parent
	}
	return false
}
