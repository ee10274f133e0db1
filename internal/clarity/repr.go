package clarity

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// String renders a value in Clarity literal syntax, e.g. (ok (some u1)).
func String(v Value) string {
	if v == nil {
		return "<nil>"
	}
	var p printer
	_ = v.Accept(&p)
	return p.b.String()
}

type printer struct {
	b strings.Builder
}

func (p *printer) visit(v Value) error {
	if v == nil {
		p.b.WriteString("<nil>")
		return nil
	}
	return v.Accept(p)
}

func (p *printer) wrap(head string, inner Value) error {
	p.b.WriteString("(" + head + " ")
	if err := p.visit(inner); err != nil {
		return err
	}
	p.b.WriteString(")")
	return nil
}

func (p *printer) VisitInt(v Int) error {
	p.b.WriteString(v.Big().String())
	return nil
}

func (p *printer) VisitUInt(v UInt) error {
	p.b.WriteString("u" + v.Big().String())
	return nil
}

func (p *printer) VisitBuffer(v Buffer) error {
	p.b.WriteString(hexutil.Encode(v))
	return nil
}

func (p *printer) VisitBool(v Bool) error {
	p.b.WriteString(strconv.FormatBool(bool(v)))
	return nil
}

func (p *printer) VisitPrincipal(v Principal) error {
	p.b.WriteString(v.String())
	return nil
}

func (p *printer) VisitResponseOk(v ResponseOk) error   { return p.wrap("ok", v.Value) }
func (p *printer) VisitResponseErr(v ResponseErr) error { return p.wrap("err", v.Value) }
func (p *printer) VisitSome(v Some) error               { return p.wrap("some", v.Value) }

func (p *printer) VisitNone(None) error {
	p.b.WriteString("none")
	return nil
}

func (p *printer) VisitList(v List) error {
	p.b.WriteString("(list")
	for _, item := range v {
		p.b.WriteString(" ")
		if err := p.visit(item); err != nil {
			return err
		}
	}
	p.b.WriteString(")")
	return nil
}

func (p *printer) VisitTuple(v Tuple) error {
	p.b.WriteString("(tuple")
	for _, key := range v.Keys() {
		p.b.WriteString(" ")
		if err := p.wrap(key, v[key]); err != nil {
			return err
		}
	}
	p.b.WriteString(")")
	return nil
}

func (p *printer) VisitStringASCII(v StringASCII) error {
	p.b.WriteString(strconv.Quote(string(v)))
	return nil
}

func (p *printer) VisitStringUTF8(v StringUTF8) error {
	p.b.WriteString("u" + strconv.Quote(string(v)))
	return nil
}
