package model

// DosageForm is the pharmaceutical category of a product.
type DosageForm string

const (
	FormTablet     DosageForm = "Comprimido"
	FormCapsule    DosageForm = "Cápsula"
	FormSyrup      DosageForm = "Xarope"
	FormOintment   DosageForm = "Pomada"
	FormInjectable DosageForm = "Injetável"
	FormOther      DosageForm = "Outro"
)

func (f DosageForm) Valid() bool {
	switch f {
	case FormTablet, FormCapsule, FormSyrup, FormOintment, FormInjectable, FormOther:
		return true
	}
	return false
}
