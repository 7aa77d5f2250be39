package probe

import "github.com/roach88/vastlit/internal/subst"

const ucharSource = `
#include <uchar.h>

int main() {
    const char *mbstr = "aa";
    char8_t c8;
    mbstate_t state;
    size_t x = mbrtoc8(&c8, mbstr, 1, &state);
}
`

// Builtin returns the probes run for every test suite setup.
func Builtin() []Probe {
	return []Probe{
		{
			Feature:  "stdbit",
			Compiler: subst.AmbientTool("cc"),
			Args:     []string{"-x", "c", "-", "-o", "/dev/null"},
			Source:   "#include <stdbit.h>\n int main() {}",
		},
		{
			Feature:  "ucharc23",
			Compiler: subst.AmbientTool("cc"),
			Args:     []string{"-std=c2x", "-x", "c", "-", "-o", "/dev/null"},
			Source:   ucharSource,
		},
		{
			Feature:  "miamcu",
			Compiler: subst.InTreeTool("vast-front"),
			Args:     []string{"-vast-emit-mlir=hl", "-x", "c", "-", "-o", "/dev/null", "-m32", "-miamcu"},
			Source:   "int main() {}",
		},
	}
}
