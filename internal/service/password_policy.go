package service

import (
	"regexp"
	"strings"

	"m-cosmetics/internal/domain"
)

const (
	MinPasswordLength = 8

	// passwords at least this similar to a user attribute are rejected
	maxPasswordSimilarity = 0.7
)

var attributeSplit = regexp.MustCompile(`\W+`)

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range strings.Fields(`
		123456 password 12345678 qwerty 123456789 12345 1234 111111 1234567 dragon
		123123 baseball abc123 football monkey letmein 696969 shadow master 666666
		qwertyuiop 123321 mustang 1234567890 michael 654321 superman 1qaz2wsx 7777777
		121212 000000 qazwsx 123qwe killer trustno1 jordan jennifer zxcvbnm asdfgh
		hunter buster soccer harley batman andrew tigger sunshine iloveyou 2000
		charlie robert thomas hockey ranger daniel starwars klaster 112233 george
		computer michelle jessica pepper 1111 zxcvbn 555555 11111111 131313 freedom
		777777 pass maggie 159753 aaaaaa ginger princess joshua cheese amanda summer
		love ashley nicole chelsea biteme matthew access yankees 987654321 dallas
		austin thunder taylor matrix mobilemail mom monitor monitoring montana moon
		moscow password1 password123 welcome welcome1 admin admin123 administrator
		passw0rd p@ssw0rd qwerty123 iloveyou1 abcdef abcd1234 lovely beautiful
		cosmetics makeup lipstick
	`) {
		commonPasswords[p] = struct{}{}
	}
}

// ValidatePassword applies the registration password rules and returns one
// message per violated rule
func ValidatePassword(password string, user *domain.User) []string {
	var problems []string

	if user != nil {
		if attr, ok := similarAttribute(password, user); ok {
			problems = append(problems, "The password is too similar to the "+attr+".")
		}
	}

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}

	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func similarAttribute(password string, user *domain.User) (string, bool) {
	attributes := []struct {
		label string
		value string
	}{
		{"username", user.Username},
		{"first name", user.FirstName},
		{"last name", user.LastName},
		{"email address", user.Email},
	}

	password = strings.ToLower(password)
	for _, attr := range attributes {
		if attr.value == "" {
			continue
		}
		value := strings.ToLower(attr.value)
		parts := append(attributeSplit.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if similarity(password, part) >= maxPasswordSimilarity {
				return attr.label, true
			}
		}
	}
	return "", false
}

// similarity is 2*LCS/(len(a)+len(b)), 1.0 for identical strings
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return 2 * float64(prev[len(rb)]) / float64(len(ra)+len(rb))
}
