package calendar

import (
	"fmt"
	"strings"
)

// BusinessDayConvention is the roll rule for dates that fall on holidays.
type BusinessDayConvention string

const (
	Unadjusted        BusinessDayConvention = "UNADJUSTED"
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
)

// ParseConvention accepts the constant names and the usual short forms (MF, F, P, MP).
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNADJUSTED", "NONE", "":
		return Unadjusted, nil
	case "FOLLOWING", "F":
		return Following, nil
	case "MODIFIED_FOLLOWING", "MODIFIEDFOLLOWING", "MF":
		return ModifiedFollowing, nil
	case "PRECEDING", "P":
		return Preceding, nil
	case "MODIFIED_PRECEDING", "MODIFIEDPRECEDING", "MP":
		return ModifiedPreceding, nil
	default:
		return "", fmt.Errorf("ParseConvention: unknown business day convention %q", s)
	}
}
