package deploy

import "strings"

const accountToken = "$account_id"

// Resolver substitutes step references in a message template.
type Resolver func(template string, tasks []*Task, accountAddress string) string

// Resolve replaces $account_id with the deploying address, then every $<id> with that task's
// contract address (empty when not instantiated yet) and every #<id> with its code id when
// known. Replacement is literal, so $step1 also matches the prefix of $step10.
func Resolve(template string, tasks []*Task, accountAddress string) string {
	return resolve(template, tasks, accountAddress, strings.ReplaceAll)
}

// ResolveStrict behaves like Resolve but only replaces a reference that is not followed by
// an identifier character.
func ResolveStrict(template string, tasks []*Task, accountAddress string) string {
	return resolve(template, tasks, accountAddress, replaceToken)
}

// ResolverFor picks the resolver matching the strict_templates setting.
func ResolverFor(strict bool) Resolver {
	if strict {
		return ResolveStrict
	}
	return Resolve
}

func resolve(template string, tasks []*Task, accountAddress string, replace func(s, old, new string) string) string {
	msg := replace(template, accountToken, accountAddress)

	for _, task := range tasks {
		msg = replace(msg, "$"+task.Step.ID, task.ContractAddress)
	}
	for _, task := range tasks {
		if task.CodeID == "" {
			continue
		}
		msg = replace(msg, "#"+task.Step.ID, task.CodeID)
	}

	return msg
}

func replaceToken(s, token, value string) string {
	if token == "" {
		return s
	}

	var b strings.Builder
	for {
		i := strings.Index(s, token)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}

		end := i + len(token)
		b.WriteString(s[:i])
		if end < len(s) && isIdentByte(s[end]) {
			b.WriteString(token)
		} else {
			b.WriteString(value)
		}
		s = s[end:]
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
