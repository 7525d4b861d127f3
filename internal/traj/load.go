package traj

import (
	"fmt"
	"path/filepath"
	"strings"

	chem "github.com/rmera/gochem"
	"github.com/rmera/gochem/traj/dcd"
	"github.com/rmera/gochem/traj/xtc"
	v3 "github.com/rmera/gochem/v3"
)

// LoadOptions controls how a replicate is read into memory.
type LoadOptions struct {
	// Lipid is the residue name of the lipid under analysis, e.g. POPC.
	Lipid string
	// LipidAtoms optionally restricts lipid residues to the named atoms.
	// Empty means every atom of the lipid molecule.
	LipidAtoms []string
	// Subunits is the number of identical protein copies in the system.
	// Protein residues are split into this many consecutive chunks.
	Subunits int
	// Stride stores every Stride-th frame. Values below 1 mean every frame.
	Stride int
	// FrameTime is the simulation time between stored frames after striding,
	// in the run's configured time unit.
	FrameTime float64
}

// solvent residue names never counted as protein in coarse-grained systems.
var solventNames = map[string]bool{
	"W": true, "WF": true, "PW": true, "ION": true,
	"NA": true, "CL": true, "NA+": true, "CL-": true,
}

// Load reads a topology file and a trajectory file into the in-memory model.
// GRO and PDB topologies and XTC and DCD trajectories are supported; the
// format is picked from the file extension.
func Load(trajPath, topPath string, opts LoadOptions) (*Trajectory, *Topology, error) {
	mol, err := readTopology(topPath)
	if err != nil {
		return nil, nil, err
	}
	top, err := buildTopology(mol, opts)
	if err != nil {
		return nil, nil, err
	}
	trj, err := readFrames(trajPath, mol.Len(), opts)
	if err != nil {
		return nil, nil, err
	}
	return trj, top, nil
}

func readTopology(path string) (*chem.Molecule, error) {
	var (
		mol *chem.Molecule
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gro":
		mol, err = chem.GroFileRead(path)
	case ".pdb":
		mol, err = chem.PDBFileRead(path, false)
	default:
		return nil, fmt.Errorf("traj: unsupported topology format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("traj: read topology %s: %w", path, err)
	}
	return mol, nil
}

// buildTopology groups atoms into residues and classifies them. A residue
// whose name matches the configured lipid becomes a lipid instance; solvent
// and ion residues are dropped; everything else is protein.
func buildTopology(mol *chem.Molecule, opts LoadOptions) (*Topology, error) {
	var protein []Residue
	var lipids []Residue

	var current Residue
	currentKey := ""
	flush := func() {
		if currentKey == "" || len(current.AtomIDs) == 0 {
			return
		}
		switch {
		case current.Name == opts.Lipid:
			lipids = append(lipids, current)
		case solventNames[current.Name]:
		default:
			protein = append(protein, current)
		}
	}
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		key := fmt.Sprintf("%s/%d", at.MolName, at.MolID)
		if key != currentKey {
			flush()
			current = Residue{Name: at.MolName, ID: at.MolID}
			currentKey = key
		}
		if current.Name == opts.Lipid && len(opts.LipidAtoms) > 0 && !containsName(opts.LipidAtoms, at.Name) {
			continue
		}
		current.AtomIDs = append(current.AtomIDs, i)
	}
	flush()

	if len(lipids) == 0 {
		return nil, fmt.Errorf("traj: no %s residues in topology", opts.Lipid)
	}
	if len(protein) == 0 {
		return nil, fmt.Errorf("traj: no protein residues in topology")
	}
	nprot := opts.Subunits
	if nprot < 1 {
		nprot = 1
	}
	if len(protein)%nprot != 0 {
		return nil, fmt.Errorf("traj: %d protein residues not divisible into %d subunits", len(protein), nprot)
	}
	per := len(protein) / nprot
	subunits := make([][]Residue, nprot)
	for s := 0; s < nprot; s++ {
		subunits[s] = protein[s*per : (s+1)*per]
	}
	return &Topology{Subunits: subunits, Lipids: lipids}, nil
}

func readFrames(path string, natoms int, opts LoadOptions) (*Trajectory, error) {
	reader, err := openTrajectory(path)
	if err != nil {
		return nil, err
	}
	stride := opts.Stride
	if stride < 1 {
		stride = 1
	}
	if reader.Len() != natoms {
		return nil, fmt.Errorf("traj: %s has %d atoms, topology has %d", path, reader.Len(), natoms)
	}
	coords := v3.Zeros(natoms)
	trj := &Trajectory{}
	for frame := 0; ; frame++ {
		err := reader.Next(coords)
		if err != nil {
			if _, last := err.(chem.LastFrameError); last {
				break
			}
			return nil, fmt.Errorf("traj: read frame %d of %s: %w", frame, path, err)
		}
		if frame%stride != 0 {
			continue
		}
		stored := make([]Vec3, natoms)
		for i := 0; i < natoms; i++ {
			stored[i] = Vec3{coords.At(i, 0), coords.At(i, 1), coords.At(i, 2)}
		}
		trj.Times = append(trj.Times, float64(len(trj.Coords))*opts.FrameTime)
		trj.Coords = append(trj.Coords, stored)
	}
	if trj.NFrames() == 0 {
		return nil, fmt.Errorf("traj: %s contains no frames", path)
	}
	return trj, nil
}

func openTrajectory(path string) (chem.Traj, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xtc":
		reader, err := xtc.New(path)
		if err != nil {
			return nil, fmt.Errorf("traj: open %s: %w", path, err)
		}
		return reader, nil
	case ".dcd":
		reader, err := dcd.New(path)
		if err != nil {
			return nil, fmt.Errorf("traj: open %s: %w", path, err)
		}
		return reader, nil
	default:
		return nil, fmt.Errorf("traj: unsupported trajectory format %q", filepath.Ext(path))
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
