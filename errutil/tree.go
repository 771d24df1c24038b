package errutil

import (
	"fmt"

	"github.com/xeptore/flaw/v8"
)

// ErrInfo is a serializable snapshot of an error chain, attached to flaw
// payloads under the err_debug_tree key.
type ErrInfo struct {
	Message    string
	TypeName   string
	SyntaxRepr string
	Children   []ErrInfo
}

func (e ErrInfo) FlawP() flaw.P {
	children := make([]flaw.P, len(e.Children))
	for i, child := range e.Children {
		children[i] = child.FlawP()
	}

	return flaw.P{
		"message":     e.Message,
		"type_name":   e.TypeName,
		"syntax_repr": e.SyntaxRepr,
		"children":    children,
	}
}

func Tree(err error) ErrInfo {
	if err == nil {
		panic("nil error")
	}

	info := ErrInfo{
		Message:    err.Error(),
		TypeName:   fmt.Sprintf("%T", err),
		SyntaxRepr: fmt.Sprintf("%+#v", err),
		Children:   nil,
	}

	//nolint:errorlint
	switch x := err.(type) {
	case interface{ Unwrap() error }:
		if inner := x.Unwrap(); nil != inner {
			info.Children = []ErrInfo{Tree(inner)}
		}
	case interface{ Unwrap() []error }:
		errs := x.Unwrap()
		info.Children = make([]ErrInfo, 0, len(errs))
		for _, inner := range errs {
			info.Children = append(info.Children, Tree(inner))
		}
	}
	return info
}
