package collection

// Option is one documented configuration option of a rule.
type Option struct {
	Name                 string       `json:"name" yaml:"name"`
	Description          string       `json:"description" yaml:"description"`
	DefaultValue         DefaultValue `json:"defaultValue" yaml:"defaultValue"`
	DefaultPlatformValue DefaultValue `json:"defaultPlatformValue,omitempty" yaml:"defaultPlatformValue,omitempty"`
	Deprecated           *string      `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// IsDeprecated reports whether the option carries a deprecation notice.
func (o Option) IsDeprecated() bool {
	return o.Deprecated != nil
}

// DefaultFor returns the platform default when platform is set and one exists,
// otherwise the regular default.
func (o Option) DefaultFor(platform bool) DefaultValue {
	if platform && o.DefaultPlatformValue != nil {
		return o.DefaultPlatformValue
	}
	return o.DefaultValue
}
