package manifest

import (
	"encoding/json"
	"log/slog"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/TomasBahnik/kube-helpers/pkg/document"
)

// propertiesKey is the ConfigMap data key carrying spring-style properties.
const propertiesKey = "application.properties"

// processDoc dispatches one document. Known kinds go through typed decodes,
// everything else through the generic walk. A failed typed decode degrades
// to the generic walk instead of failing the analysis.
func (a *Analyzer) processDoc(doc *document.Node, acc *Analysis, inv *inventory) {
	switch kindOf(doc) {
	case "Pod":
		var pod corev1.Pod
		if decodeInto(doc, &pod) {
			acc.addContainers(pod.Spec.Containers, pod.Spec.InitContainers, nil, inv)
			return
		}
	case "Deployment":
		var dep appsv1.Deployment
		if decodeInto(doc, &dep) {
			spec := dep.Spec.Template.Spec
			acc.addContainers(spec.Containers, spec.InitContainers, replicasOf(dep.Spec.Replicas), inv)
			return
		}
	case "StatefulSet":
		var sts appsv1.StatefulSet
		if decodeInto(doc, &sts) {
			spec := sts.Spec.Template.Spec
			acc.addContainers(spec.Containers, spec.InitContainers, replicasOf(sts.Spec.Replicas), inv)
			acc.addStatefulSetVolumes(&sts)
			return
		}
	case "Job":
		var job batchv1.Job
		if decodeInto(doc, &job) {
			spec := job.Spec.Template.Spec
			acc.addContainers(spec.Containers, spec.InitContainers, nil, inv)
			return
		}
	case "ConfigMap":
		var cm corev1.ConfigMap
		if decodeInto(doc, &cm) {
			if props, ok := cm.Data[propertiesKey]; ok {
				acc.Properties[cm.Name] = props
			}
			return
		}
	}
	a.generic(doc, acc, inv)
}

// decodeInto re-encodes the mapping node as JSON and decodes it into a
// typed k8s object.
func decodeInto(doc *document.Node, out any) bool {
	b, err := json.Marshal(doc)
	if err != nil {
		slog.Warn("encoding document for typed decode", "error", err)
		return false
	}
	if err := sigsyaml.Unmarshal(b, out); err != nil {
		slog.Warn("typed decode failed, using generic walk", "error", err)
		return false
	}
	return true
}

func replicasOf(r *int32) *int64 {
	if r == nil {
		return nil
	}
	return ptr.To(int64(*r))
}

func (acc *Analysis) addContainers(containers, init []corev1.Container, replicas *int64, inv *inventory) {
	for _, c := range containers {
		acc.addRow(c, replicas, inv, "")
	}
	for _, c := range init {
		acc.addRow(c, replicas, inv, "init-")
	}
}

func (acc *Analysis) addRow(c corev1.Container, replicas *int64, inv *inventory, locationPrefix string) {
	if c.Name == "" {
		slog.Warn("skipping container without name", "image", c.Image)
		return
	}
	if _, exists := acc.Rows[c.Name]; exists {
		slog.Debug("container name repeated, keeping last", "container", c.Name)
	}
	acc.Rows[c.Name] = Row{
		Env:      c.Env,
		Image:    c.Image,
		Limits:   resourceList(c.Resources.Limits),
		Replicas: replicas,
		Requests: resourceList(c.Resources.Requests),
	}
	inv.record(c.Image, locationPrefix+c.Name)
}

// resourceList converts typed quantities back to their manifest strings.
func resourceList(rl corev1.ResourceList) map[string]string {
	out := make(map[string]string, len(rl))
	for name, q := range rl {
		out[string(name)] = q.String()
	}
	return out
}

// addStatefulSetVolumes records the storage request of the single volume
// claim template, keyed by service name. Sets carrying several templates
// are skipped, there is no single storage figure to report for them.
func (acc *Analysis) addStatefulSetVolumes(sts *appsv1.StatefulSet) {
	templates := sts.Spec.VolumeClaimTemplates
	if len(templates) == 0 {
		return
	}
	key := sts.Spec.ServiceName
	if key == "" {
		key = sts.Name
	}
	if len(templates) > 1 {
		slog.Warn("skipping volume claims, expected exactly one template", "service", key, "templates", len(templates))
		return
	}
	if storage, ok := templates[0].Spec.Resources.Requests[corev1.ResourceStorage]; ok {
		acc.Volumes[key] = storage.String()
	}
}

// generic walks unknown kinds: workload container paths, replicas and
// volume claim templates through unstructured field access.
func (a *Analyzer) generic(doc *document.Node, acc *Analysis, inv *inventory) {
	obj, ok := doc.Unwrap().(map[string]any)
	if !ok {
		return
	}

	var replicas *int64
	if v, found, _ := unstructured.NestedInt64(obj, "spec", "replicas"); found {
		replicas = &v
	}
	containers := genericContainers(obj, "spec", "template", "spec", "containers")
	if containers == nil {
		containers = genericContainers(obj, "spec", "containers")
	}
	init := genericContainers(obj, "spec", "template", "spec", "initContainers")
	if init == nil {
		init = genericContainers(obj, "spec", "initContainers")
	}
	acc.addContainers(containers, init, replicas, inv)
	genericVolumes(obj, acc)
}

func genericContainers(obj map[string]any, fields ...string) []corev1.Container {
	raw, found, err := unstructured.NestedSlice(obj, fields...)
	if !found || err != nil {
		return nil
	}
	var out []corev1.Container
	for _, item := range raw {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var c corev1.Container
		if err := sigsyaml.Unmarshal(b, &c); err != nil {
			slog.Warn("skipping malformed container entry", "error", err)
			continue
		}
		out = append(out, c)
	}
	return out
}

func genericVolumes(obj map[string]any, acc *Analysis) {
	templates, found, _ := unstructured.NestedSlice(obj, "spec", "volumeClaimTemplates")
	if !found || len(templates) == 0 {
		return
	}
	key, _, _ := unstructured.NestedString(obj, "spec", "serviceName")
	if key == "" {
		key, _, _ = unstructured.NestedString(obj, "metadata", "name")
	}
	if len(templates) > 1 {
		slog.Warn("skipping volume claims, expected exactly one template", "service", key, "templates", len(templates))
		return
	}
	tmpl, ok := templates[0].(map[string]any)
	if !ok {
		return
	}
	if storage, found, _ := unstructured.NestedString(tmpl, "spec", "resources", "requests", "storage"); found {
		acc.Volumes[key] = storage
	}
}
