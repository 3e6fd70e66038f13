package entity

import "strings"

// CompanyProfile datos de marca del taller que encabezan la factura.
type CompanyProfile struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// DefaultCompany perfil usado cuando un campo del perfil configurado viene vacío.
var DefaultCompany = CompanyProfile{
	Name:    "AutoCare Service Center",
	Address: "123 Service Road, Motor City",
	Phone:   "(555) 010-2030",
	Email:   "billing@autocare.example",
}

// Resolve completa campo a campo con DefaultCompany.
func (p CompanyProfile) Resolve() CompanyProfile {
	return CompanyProfile{
		Name:    firstNonBlank(p.Name, DefaultCompany.Name),
		Address: firstNonBlank(p.Address, DefaultCompany.Address),
		Phone:   firstNonBlank(p.Phone, DefaultCompany.Phone),
		Email:   firstNonBlank(p.Email, DefaultCompany.Email),
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
