// Package planfile reads and writes build plans as files.
//
// A plan file captures a compiled build plan together with the facts it was
// resolved for, so that a build executor (or a later run) can replay the
// exact same build without re-resolving. Serialization is deterministic:
// the same plan always produces byte-identical output, which makes plan
// files diffable and digestable.
//
// Two encodings are supported: JSON (the canonical format, used for the
// content digest) and YAML (for human review).
//
// Write a plan file:
//
//	doc := planfile.New(plan, opts.Compiler, opts.Platform)
//	if err := doc.WriteFile("fyaml.plan.json"); err != nil {
//	    log.Fatal(err)
//	}
//
// Read one back:
//
//	doc, err := planfile.ReadFile("fyaml.plan.json")
package planfile
