package shape

import (
	"testing"

	"protoreg/testutil"
)

func TestPublicPackageDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "pkg/shape is a public package")
	testutil.AssertNoTransitiveDependency(t, "protoreg/pkg/shape", testutil.ModuleInternal("protoreg"), "pkg/shape must build without internal packages")
}
