package domain

import "path/filepath"

// RuleKind discriminates the variants of Rule.
type RuleKind uint8

const (
	// RulePhony matches a Phony target by exact name.
	RulePhony RuleKind = iota
	// RuleFilePredicate matches a File target via a predicate over its
	// absolute path.
	RuleFilePredicate
	// RuleFilePattern matches a File target via a glob relative to the
	// project root.
	RuleFilePattern
)

// FilePredicateFunc decides whether a rule applies to an absolute path.
type FilePredicateFunc func(absPath string) bool

// Rule binds a pattern to a Recipe. Rules are immutable once constructed;
// a RuleSet holds them in declaration order because first-match wins.
type Rule struct {
	Kind      RuleKind
	Name      string            // RulePhony
	Glob      string            // RuleFilePattern
	Predicate FilePredicateFunc // RuleFilePredicate
	Recipe    Recipe
}

// NewPhonyRule builds a Phony rule.
func NewPhonyRule(name string, recipe Recipe) Rule {
	return Rule{Kind: RulePhony, Name: name, Recipe: recipe}
}

// NewFilePredicateRule builds a rule matching by predicate over the absolute path.
func NewFilePredicateRule(pred FilePredicateFunc, recipe Recipe) Rule {
	return Rule{Kind: RuleFilePredicate, Predicate: pred, Recipe: recipe}
}

// NewFilePatternRule builds a rule matching by glob, relative to the project root.
func NewFilePatternRule(glob string, recipe Recipe) Rule {
	return Rule{Kind: RuleFilePattern, Glob: glob, Recipe: recipe}
}

// Demands builds a Phony rule named name whose body needs every target in
// targets and then opts out of caching, exactly as spec.md §6 describes the
// "demands" helper: `name ⇐ [t1; t2; …]`.
func Demands(name string, targets ...string) Rule {
	return NewPhonyRule(name, func(ctx RecipeContext) error {
		if err := ctx.Need(targets...); err != nil {
			return err
		}
		ctx.AlwaysRerun()
		return nil
	})
}

// Matches reports whether r applies to target, given the project root and
// a glob matcher for FilePattern rules.
func (r Rule) Matches(target Target, projectRoot string, matcher GlobMatcher) bool {
	switch r.Kind {
	case RulePhony:
		return target.IsPhony() && r.Name == target.Name()
	case RuleFilePredicate:
		return target.IsFile() && r.Predicate != nil && r.Predicate(target.Path())
	case RuleFilePattern:
		if !target.IsFile() {
			return false
		}
		rel, err := filepath.Rel(projectRoot, target.Path())
		if err != nil {
			return false
		}
		return matcher.Matches(r.Glob, projectRoot, rel)
	default:
		return false
	}
}

// RuleSet is the ordered collection of pattern->recipe bindings. Rules are
// appended at script-load time and are immutable thereafter; locate always
// evaluates in append order so the first match wins.
type RuleSet struct {
	rules   []Rule
	matcher GlobMatcher
}

// NewRuleSet creates an empty RuleSet using matcher to evaluate FilePattern rules.
func NewRuleSet(matcher GlobMatcher) *RuleSet {
	return &RuleSet{matcher: matcher}
}

// Add appends rule to the set.
func (rs *RuleSet) Add(rule Rule) {
	rs.rules = append(rs.rules, rule)
}

// Locate returns the first rule (in declaration order) that matches target,
// and whether any rule matched.
func (rs *RuleSet) Locate(target Target, projectRoot string) (Rule, bool) {
	for _, rule := range rs.rules {
		if rule.Matches(target, projectRoot, rs.matcher) {
			return rule, true
		}
	}
	return Rule{}, false
}

// HasPhony reports whether a phony rule named name exists; used to resolve
// a bare name into a Phony or File target (phony wins on shadowing, §3).
func (rs *RuleSet) HasPhony(name string) bool {
	for _, rule := range rs.rules {
		if rule.Kind == RulePhony && rule.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of registered rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
