package service

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// GitHub handle rules: alphanumeric or hyphen, no leading/trailing
	// hyphen, at most 39 characters.
	githubPattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9]|-[a-zA-Z0-9]){0,38}$`)

	usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validGithubHandle(handle string) bool {
	return len(handle) <= 39 && githubPattern.MatchString(handle)
}

func validUsername(username string) bool {
	return usernamePattern.MatchString(username)
}
