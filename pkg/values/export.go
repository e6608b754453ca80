package values

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/TomasBahnik/kube-helpers/pkg/document"
	"github.com/TomasBahnik/kube-helpers/pkg/quantity"
	"github.com/TomasBahnik/kube-helpers/pkg/sizing"
)

// exportDBPath receives the application database name during an export.
const exportDBPath = "postgresExporterMmmDb/db/dbName"

// Export converts the profile's raw sections into a values-shaped document
// without consulting a module profile. Dotted keys become nested paths,
// cpu.* and memory.* keys are gathered under resources/, extraProperties
// and extraEnv get their structured forms. appDBName is merged at the
// exporter db path when non-empty.
func Export(src *sizing.Source, appDBName string) *document.Document {
	doc := document.New()
	for _, section := range src.Sections() {
		doc.Merge(section, sectionNode(src, section, false))
	}
	if appDBName != "" {
		doc.Merge(exportDBPath, document.String(appDBName))
	}
	return doc
}

// sectionNode renders one raw section. In app template form the resource
// paths are reversed (requests/cpu instead of cpu/requests) and not
// wrapped in resources/.
func sectionNode(src *sizing.Source, section string, appTemplate bool) *document.Node {
	sub := document.New()
	for _, item := range src.Items(section) {
		path := document.DottedToPath(item.Key)
		var value *document.Node
		switch {
		case item.Key == sizing.KeyExtraProps:
			value = propertiesNode(sizing.ParseProperties(section, item.Value))
		case item.Key == sizing.KeyExtraEnv:
			value = envNode(sizing.ParseEnv(section, item.Value))
		case strings.Contains(item.Key, "cpu") || strings.Contains(item.Key, "memory"):
			if appTemplate {
				segments := document.SplitPath(path)
				for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
					segments[i], segments[j] = segments[j], segments[i]
				}
				path = strings.Join(segments, document.PathSeparator)
			} else {
				path = "resources" + document.PathSeparator + path
			}
			value = document.String(item.Value)
		case strings.Contains(item.Key, "replicas"):
			value = countNode(section, item.Key, item.Value)
		default:
			value = document.String(item.Value)
		}
		sub.Merge(path, value)
	}
	return sub.Root()
}

// ComponentTemplate is the application template payload for one component:
// the chart root key in dotted form and the reversed-resource section per
// sizing profile.
type ComponentTemplate struct {
	Component string
	Doc       *document.Document
}

// AppTemplates builds one template document per component across the given
// profile sources. Components appear in first-seen section order; profiles
// keep the order of sources.
func AppTemplates(sources []*sizing.Source) []ComponentTemplate {
	var order []string
	docs := make(map[string]*document.Document)
	for _, src := range sources {
		for _, section := range src.Sections() {
			doc, ok := docs[section]
			if !ok {
				doc = document.New()
				doc.Merge("chartRootKey", document.String(strings.ReplaceAll(section, document.PathSeparator, ".")))
				doc.Merge("default", document.Map())
				doc.Merge("sizing", document.Map())
				docs[section] = doc
				order = append(order, section)
			}
			doc.Merge("sizing"+document.PathSeparator+src.Profile(), sectionNode(src, section, true))
		}
	}
	out := make([]ComponentTemplate, 0, len(order))
	for _, section := range order {
		out = append(out, ComponentTemplate{Component: section, Doc: docs[section]})
	}
	return out
}

// ScaledResources multiplies the normalized resources of the selected
// components and returns {component: {resources: ...}} with memory in
// whole canonical units and cpu in cores.
func ScaledResources(src *sizing.Source, components []string, multiplyCPU, multiplyMem float64) *document.Document {
	doc := document.New()
	for _, c := range components {
		spec := src.ResourceSpec(c)
		if spec.Empty() {
			slog.Warn("no resources to scale", "component", c)
			continue
		}
		norm := quantity.Normalize(specResources(spec), multiplyCPU, multiplyMem)
		node := document.Map()
		for _, cat := range []quantity.Category{quantity.CategoryRequests, quantity.CategoryLimits} {
			block, ok := norm[cat]
			if !ok {
				continue
			}
			sub := document.Map()
			for _, name := range []string{"cpu", "memory"} {
				if v, ok := block[name]; ok {
					sub.Set(name, document.Float(v))
				}
			}
			node.Set(string(cat), sub)
		}
		doc.Merge(c+"/resources", node)
	}
	return doc
}

func specResources(r sizing.ResourceSpec) quantity.Resources {
	res := quantity.Resources{}
	if r.CPURequests != "" || r.MemoryRequests != "" {
		res.Requests = map[string]string{}
		if r.CPURequests != "" {
			res.Requests["cpu"] = r.CPURequests
		}
		if r.MemoryRequests != "" {
			res.Requests["memory"] = r.MemoryRequests
		}
	}
	if r.CPULimits != "" || r.MemoryLimits != "" {
		res.Limits = map[string]string{}
		if r.CPULimits != "" {
			res.Limits["cpu"] = r.CPULimits
		}
		if r.MemoryLimits != "" {
			res.Limits["memory"] = r.MemoryLimits
		}
	}
	return res
}

// ScaleArtifactName names the scale artifact after the profile and the two
// factors, floats spelled with a decimal point (2 -> 2.0).
func ScaleArtifactName(profile string, multiplyCPU, multiplyMem float64) string {
	return profile + "_" + factor(multiplyCPU) + "x_cpu_" + factor(multiplyMem) + "x_mem.yaml"
}

func factor(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
