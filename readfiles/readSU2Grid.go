package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/notargets/godec/geometry2D"
	"github.com/notargets/godec/types"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle                     = 5
	ELType_Quadrilateral                = 9
)

func readBCs(reader *bufio.Reader) (BCEdges map[string][]types.EdgeInt, err error) {
	var (
		nType   int
		v1, v2  int
		prevInd int
		NBCs    int
		line    string
	)
	if NBCs, err = readNumber(reader); err != nil {
		return
	}
	BCEdges = make(map[string][]types.EdgeInt, NBCs)
	for n := 0; n < NBCs; n++ {
		var (
			label  string
			nEdges int
		)
		if label, err = readLabel(reader); err != nil {
			return
		}
		if nEdges, err = readNumber(reader); err != nil {
			return
		}
		// Repeated labels append to a common slice
		prevInd = len(BCEdges[label])
		BCEdges[label] = types.GrowSlice(BCEdges[label], prevInd+nEdges)
		for i := 0; i < nEdges; i++ {
			if line, err = getLine(reader); err != nil {
				return
			}
			if _, err = fmt.Sscanf(line, "%d %d %d", &nType, &v1, &v2); err != nil {
				err = fmt.Errorf("marker %s edge %d: %w", label, i, err)
				return
			}
			if SU2ElementType(nType) != ELType_LINE {
				err = fmt.Errorf("marker %s: BCs should only contain line elements in 2D, have type %d", label, nType)
				return
			}
			BCEdges[label][i+prevInd] = types.NewEdgeInt([2]int{v1, v2})
		}
	}
	return
}

func readVertices(reader *bufio.Reader) (VX, VY []float64, err error) {
	var (
		n    int
		x, y float64
		Nv   int
		line string
	)
	if Nv, err = readNumber(reader); err != nil {
		return
	}
	VX, VY = make([]float64, Nv), make([]float64, Nv)
	for i := 0; i < Nv; i++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if n, err = fmt.Sscanf(line, "%f %f", &x, &y); err != nil || n != 2 {
			err = fmt.Errorf("unable to read coordinates of vertex %d from [%s]: %v", i, line, err)
			return
		}
		VX[i], VY[i] = x, y
	}
	return
}

func readElements(reader *bufio.Reader) (EToV [][3]int, err error) {
	var (
		n          int
		nType      int
		v1, v2, v3 int
		K          int
		line       string
	)
	if K, err = readNumber(reader); err != nil {
		return
	}
	EToV = make([][3]int, K)
	for k := 0; k < K; k++ {
		if line, err = getLine(reader); err != nil {
			return
		}
		if n, err = fmt.Sscanf(line, "%d %d %d %d", &nType, &v1, &v2, &v3); err != nil || n != 4 {
			err = fmt.Errorf("unable to read vertices of element %d from [%s]: %v", k, line, err)
			return
		}
		if SU2ElementType(nType) != ELType_Triangle {
			err = fmt.Errorf("element %d has type %d, only triangles (%d) are supported", k, nType, ELType_Triangle)
			return
		}
		EToV[k] = [3]int{v1, v2, v3}
	}
	return
}

func getToken(reader *bufio.Reader) (token string, err error) {
	var (
		line string
	)
	if line, err = getLineNoComments(reader); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = fmt.Errorf("badly formed input line [%s], should have an =", line)
		return
	}
	token = line[ind+1:]
	return
}

func readLabel(reader *bufio.Reader) (label string, err error) {
	var (
		token string
	)
	if token, err = getToken(reader); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%s", &label); err != nil {
		err = fmt.Errorf("unable to read label from token: [%s]", token)
		return
	}
	label = strings.Trim(label, " ")
	return
}

func readNumber(reader *bufio.Reader) (num int, err error) {
	var (
		token string
	)
	if token, err = getToken(reader); err != nil {
		return
	}
	if _, err = fmt.Sscanf(token, "%d", &num); err != nil {
		err = fmt.Errorf("unable to read number from token: [%s]", token)
	}
	return
}

func getLineNoComments(reader *bufio.Reader) (line string, err error) {
	for {
		if line, err = getLine(reader); err != nil {
			return
		}
		line = strings.Trim(line, " ")
		if !strings.HasPrefix(line, "%") {
			return
		}
	}
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("early end of file")
		}
		return
	}
	line = strings.TrimRight(line, "\r\n") // Strip away the newline
	return
}

func skipLines(n int, reader *bufio.Reader) {
	for i := 0; i < n; i++ {
		_, _ = getLine(reader)
	}
}

// ParseSU2 reads a 2D triangle mesh in SU2 format, keeping the boundary markers as named edge groups.
func ParseSU2(r io.Reader) (tm *geometry2D.TriMesh, err error) {
	var (
		reader         = bufio.NewReader(r)
		dimensionality int
		EToV           [][3]int
		VX, VY         []float64
		BCEdges        map[string][]types.EdgeInt
	)
	if dimensionality, err = readNumber(reader); err != nil {
		return
	}
	if dimensionality != 2 {
		err = fmt.Errorf("have %d dimensional data, only 2D meshes are supported", dimensionality)
		return
	}
	if EToV, err = readElements(reader); err != nil {
		return
	}
	if VX, VY, err = readVertices(reader); err != nil {
		return
	}
	if BCEdges, err = readBCs(reader); err != nil {
		return
	}
	if tm, err = geometry2D.NewTriMesh(VX, VY, EToV); err != nil {
		return
	}
	tm.BCEdges = BCEdges
	return
}

func ReadSU2(filename string, verbose bool) (tm *geometry2D.TriMesh, err error) {
	var (
		file *os.File
	)
	if verbose {
		fmt.Printf("Reading SU2 file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", filename, err)
		return
	}
	defer file.Close()
	if tm, err = ParseSU2(file); err != nil {
		err = fmt.Errorf("reading %s: %w", filename, err)
		return
	}
	if verbose {
		fmt.Printf("Read %d vertices, %d triangles, %d boundary markers\n",
			tm.NumVerts(), tm.NumTris(), len(tm.BCEdges))
	}
	return
}

// WriteSU2 writes tm in SU2 format. Meshes without markers get a single "boundary" marker
// holding every edge that belongs to only one triangle.
func WriteSU2(w io.Writer, tm *geometry2D.TriMesh) (err error) {
	var (
		bw      = bufio.NewWriter(w)
		bcEdges = tm.BCEdges
	)
	if len(bcEdges) == 0 {
		bcEdges = map[string][]types.EdgeInt{"boundary": boundaryEdges(tm)}
	}
	fmt.Fprintf(bw, "NDIME= 2\n")
	fmt.Fprintf(bw, "NELEM= %d\n", tm.NumTris())
	for k, tri := range tm.Tris {
		fmt.Fprintf(bw, "%d %d %d %d %d\n", ELType_Triangle, tri[0], tri[1], tri[2], k)
	}
	fmt.Fprintf(bw, "NPOIN= %d\n", tm.NumVerts())
	for i := range tm.VX {
		fmt.Fprintf(bw, "%.17g %.17g %d\n", tm.VX[i], tm.VY[i], i)
	}
	labels := make([]string, 0, len(bcEdges))
	for label := range bcEdges {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	fmt.Fprintf(bw, "NMARK= %d\n", len(labels))
	for _, label := range labels {
		fmt.Fprintf(bw, "MARKER_TAG= %s\n", label)
		fmt.Fprintf(bw, "MARKER_ELEMS= %d\n", len(bcEdges[label]))
		for _, e := range bcEdges[label] {
			verts := e.GetVertices()
			fmt.Fprintf(bw, "%d %d %d\n", ELType_LINE, verts[0], verts[1])
		}
	}
	err = bw.Flush()
	return
}

func boundaryEdges(tm *geometry2D.TriMesh) (edges []types.EdgeInt) {
	var (
		count = make(map[types.EdgeKey]int)
		order []types.EdgeInt
	)
	for _, tri := range tm.Tris {
		for n := 0; n < 3; n++ {
			e := types.NewEdgeInt([2]int{tri[n], tri[(n+1)%3]})
			if count[e.GetKey()] == 0 {
				order = append(order, e)
			}
			count[e.GetKey()]++
		}
	}
	for _, e := range order {
		if count[e.GetKey()] == 1 {
			edges = append(edges, e)
		}
	}
	return
}
