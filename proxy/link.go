package proxy

import (
	"fmt"

	"github.com/iw2rmb/lattice/buffer"
	"github.com/iw2rmb/lattice/editor"
)

// Linked is one document linked to a proxy's document.
type Linked struct {
	Proxy      *Proxy
	SharedHist bool
}

// LinkedDoc creates a document linked to this one and an editor over it.
// Edits made through either proxy show up in both. The new proxy shares
// this proxy's options and executor, and must be closed separately.
func (p *Proxy) LinkedDoc(opt buffer.LinkOptions) *Future[*Proxy] {
	return Submit(p, "linkedDoc", func(c *editor.Core) (*Proxy, error) {
		doc := c.Doc().LinkedDoc(opt)
		return newProxy(editor.NewCore(doc, c.Options()), p.opts, p.grp), nil
	})
}

// Copy creates an independent document with the same content, and an
// editor over it. copyHistory carries the undo history over.
func (p *Proxy) Copy(copyHistory bool) *Future[*Proxy] {
	return Submit(p, "copy", func(c *editor.Core) (*Proxy, error) {
		doc := c.Doc().Copy(copyHistory)
		return New(editor.NewCore(doc, c.Options()), p.opts), nil
	})
}

// UnlinkDoc breaks the link between this document and other's.
func (p *Proxy) UnlinkDoc(other *Proxy) *Future[struct{}] {
	if other == nil {
		return failed[struct{}](classify("unlinkDoc", fmt.Errorf("%w: nil document", buffer.ErrInvalidArgument)))
	}
	return Do(p, "unlinkDoc", func(c *editor.Core) error {
		if other.grp != p.grp {
			return fmt.Errorf("%w: documents are not linked", buffer.ErrInvalidArgument)
		}
		return c.Doc().Unlink(other.core.Doc())
	})
}

// IterLinkedDocs lists the open proxies whose documents are directly
// linked to this one.
func (p *Proxy) IterLinkedDocs() *Future[[]Linked] {
	return Submit(p, "iterLinkedDocs", func(c *editor.Core) ([]Linked, error) {
		var out []Linked
		c.Doc().IterLinkedDocs(func(doc *buffer.Buffer, shared bool) {
			if q, ok := p.grp.members[doc]; ok {
				out = append(out, Linked{Proxy: q, SharedHist: shared})
			}
		})
		return out, nil
	})
}

// unlinkAll detaches the document from every linked one. The caller holds
// the group lock.
func (p *Proxy) unlinkAll() {
	doc := p.core.Doc()
	var others []*buffer.Buffer
	doc.IterLinkedDocs(func(o *buffer.Buffer, _ bool) { others = append(others, o) })
	for _, o := range others {
		if err := doc.Unlink(o); err != nil {
			log.Debugf("unlink: %s", err)
		}
	}
}
