// Package modkit wires feature modules: shared deps in, options resolved,
// routes mounted under the module prefix
package modkit

import "seqfeat/internal/modkit/module"

// Module is the common surface for modules that can mount routes and expose ports
type Module = module.Module
