package listing

import "fmt"

// Wizard 向导游标。前进需要通过当前标签页校验，后退永远放行
type Wizard struct {
	Form    *Form
	Current Tab
	Errors  ValidationErrors
}

// NewWizard 从第一个标签页开始
func NewWizard(f *Form) *Wizard {
	if f == nil {
		f = NewForm()
	}
	return &Wizard{Form: f, Current: TabGeneral}
}

// Next 校验当前标签页，通过后前进一页
func (w *Wizard) Next() bool {
	if errs := ValidateTab(w.Form, w.Current); len(errs) > 0 {
		w.Errors = errs
		return false
	}
	w.Errors = nil
	if w.Current < TabMedias {
		w.Current++
	}
	return true
}

// Prev 无条件后退
func (w *Wizard) Prev() {
	w.Errors = nil
	if w.Current > TabGeneral {
		w.Current--
	}
}

// GoTo 跳转到指定标签页。后退不校验，前进需逐页通过校验，停在第一个失败的页
func (w *Wizard) GoTo(tab Tab) (bool, error) {
	if !tab.valid() {
		return false, fmt.Errorf("onglet inconnu: %d", int(tab))
	}
	if tab <= w.Current {
		w.Current = tab
		w.Errors = nil
		return true, nil
	}
	for w.Current < tab {
		if !w.Next() {
			return false, nil
		}
	}
	return true, nil
}
