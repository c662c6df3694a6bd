package config

import "apisect/internal/intersect"

// EngineOptions maps the switches and lists onto the intersection engine.
// Profile and Progress are left to the caller.
func (c *Config) EngineOptions() intersect.Options {
	return intersect.Options{
		KeepInternalConstructors: c.Options.KeepInternalConstructors,
		KeepInteropAttributes:    c.Options.KeepInteropAttributes,
		StripSerializable:        c.Options.StripSerializable,
		RedirectInteropMarker:    c.Options.RedirectInteropMarker,
		InteropRedirect:          c.Options.InteropRedirect,
		Lenient:                  c.Options.Lenient,
		Blacklist:                c.Lists.Blacklist,
		Whitelist:                c.Lists.Whitelist,
		MemberRemovalAllow:       c.Lists.MemberRemovalAllow,
		ExplicitTypeAllow:        c.Lists.ExplicitTypeAllow,
		InteropAttributes:        c.Lists.InteropAttributes,
	}
}
