package profile

import "github.com/DHJariwala/is601-user-management/internal/domain"

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := err.(*domain.Error); ok {
		return de.Code
	}
	return "non_domain_error"
}
