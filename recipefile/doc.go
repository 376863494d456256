// Package recipefile loads recipe declarations from HCL files.
//
// A recipe file contains one or more recipe blocks:
//
//	recipe "fyaml" {
//	  homepage = "https://github.com/GEOS-ESM/fyaml"
//	  url      = "https://github.com/GEOS-ESM/fyaml/archive/refs/tags/v0.2.0.tar.gz"
//	  git      = "https://github.com/GEOS-ESM/fyaml.git"
//
//	  version "0.2.0" {
//	    sha256 = "0000000000000000000000000000000000000000000000000000000000000000"
//	  }
//	  version "main" {
//	    branch = "main"
//	  }
//
//	  variant "shared" {
//	    default     = true
//	    description = "Build shared libraries"
//	  }
//
//	  depends_on "cmake" {
//	    kinds      = ["build"]
//	    constraint = ">=3.12"
//	  }
//
//	  conflicts {
//	    compiler   = "gcc"
//	    constraint = "<=10"
//	    message    = "fyaml requires GCC 11 or later"
//	  }
//
//	  define "BUILD_SHARED_LIBS" {
//	    from_variant = "shared"
//	  }
//	}
//
// Loading is purely syntactic plus the conversions described here; the
// structural invariants (version strategies, variant domains, define
// consistency) are enforced when the recipe is registered.
package recipefile
