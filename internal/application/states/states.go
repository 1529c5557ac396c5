// Package states holds the per-user conversation state: the active wizard,
// the step inside it, the draft collected so far and the browse position.
package states

type Wizard int

const (
	WizardNone Wizard = iota
	WizardCreateGlobal
	WizardCreateCategory
	WizardCreateProduct
	WizardEditGlobal
	WizardEditCategory
	WizardEditProductName
	WizardEditMinPrice
	WizardEditPhotos
	WizardAddPhotos
	WizardDeleteGlobal
	WizardDeleteCategory
	WizardDeleteProduct
	WizardFindProduct
)

var wizardNames = map[Wizard]string{
	WizardNone:            "none",
	WizardCreateGlobal:    "create_global",
	WizardCreateCategory:  "create_category",
	WizardCreateProduct:   "create_product",
	WizardEditGlobal:      "edit_global",
	WizardEditCategory:    "edit_category",
	WizardEditProductName: "edit_product_name",
	WizardEditMinPrice:    "edit_min_price",
	WizardEditPhotos:      "edit_product_photos",
	WizardAddPhotos:       "add_photos",
	WizardDeleteGlobal:    "delete_global",
	WizardDeleteCategory:  "delete_category",
	WizardDeleteProduct:   "delete_product",
	WizardFindProduct:     "find_product",
}

func (w Wizard) String() string {
	if name, ok := wizardNames[w]; ok {
		return name
	}
	return "unknown"
}

// ParseWizard is the inverse of Wizard.String.
func ParseWizard(s string) (Wizard, bool) {
	for w, name := range wizardNames {
		if name == s {
			return w, true
		}
	}
	return WizardNone, false
}

type Step int

const (
	StepNone Step = iota
	StepName
	StepParentName
	StepMinPrice
	StepCategory
	StepParseName
	StepPhotoCount
	StepPhotos
	StepProductId
	StepNewName
)

// Menu is the screen a "back" press returns to.
type Menu string

const (
	MenuMain           Menu = "main"
	MenuGlobal         Menu = "global"
	MenuSubcategory    Menu = "subcategory"
	MenuSubSubcategory Menu = "sub_subcategory"
)

func ParseMenu(s string) (Menu, bool) {
	switch m := Menu(s); m {
	case MenuMain, MenuGlobal, MenuSubcategory, MenuSubSubcategory:
		return m, true
	}
	return "", false
}

type PhotoMode int

const (
	PhotoModeOpen PhotoMode = iota
	PhotoModeCount
)
