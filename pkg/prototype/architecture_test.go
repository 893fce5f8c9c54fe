package prototype

import (
	"testing"

	"protoreg/testutil"
)

func TestPublicPackageDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "pkg/prototype is a public package")
	testutil.AssertNoTransitiveDependency(t, "protoreg/pkg/prototype", testutil.ModuleInternal("protoreg"), "pkg/prototype must build without internal packages")
}
